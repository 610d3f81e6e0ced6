// Package store is the data access facade for the catalog service. It
// is the only package other subsystems call to reach the document
// store: it composes the connection pool, the query builder, the index
// registrar, and the analytics fan-out.
package store

import (
	"context"
	"sync"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
	"github.com/shopstack-io/shopstack/pkg/infra/pool"
)

// Collection names.
const (
	CollProducts = "products"
	CollOrders   = "orders"
	CollUsers    = "users"
	CollGallery  = "gallery"
)

// Factory defines the facade surface consumed by handlers.
type Factory interface {
	Products() ProductStore
	Orders() OrderStore
	Users() UserStore
	Gallery() GalleryStore

	DashboardAnalytics(ctx context.Context) (*model.AnalyticsSnapshot, error)
	HealthCheck(ctx context.Context) *model.HealthStatus

	Open(ctx context.Context) error
	Close() error
}

// ProductStore defines product storage operations.
type ProductStore interface {
	List(ctx context.Context, filter *model.ProductFilter, opts *model.ListOptions) (*model.ProductList, error)
	Count(ctx context.Context, filter *model.ProductFilter) (int64, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

// OrderStore defines order storage operations.
type OrderStore interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// UserStore defines user storage operations.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}

// GalleryStore defines gallery storage operations.
type GalleryStore interface {
	List(ctx context.Context) ([]*model.GalleryImage, error)
	Add(ctx context.Context, image *model.GalleryImage) error
}

// Datastore implements Factory on top of the pooled MongoDB client.
type Datastore struct {
	client  *mongodb.Client
	workers *pool.Pool

	products *products
	orders   *orders
	users    *users
	gallery  *gallery

	indexesOnce sync.Once
}

// Compile-time check that Datastore implements Factory.
var _ Factory = (*Datastore)(nil)

// New creates a Datastore. The client may be unconnected; Open
// establishes the pool and registers indexes.
func New(client *mongodb.Client, workers *pool.Pool) *Datastore {
	return &Datastore{
		client:   client,
		workers:  workers,
		products: newProducts(client),
		orders:   newOrders(client),
		users:    newUsers(client),
		gallery:  newGallery(client),
	}
}

// Open connects the pool and then ensures indexes, once per process.
// Index registration is best-effort: a failure is logged and queries
// proceed without the index, just slower.
func (ds *Datastore) Open(ctx context.Context) error {
	if err := ds.client.Connect(ctx); err != nil {
		return err
	}

	ds.indexesOnce.Do(func() {
		if err := ds.EnsureIndexes(ctx); err != nil {
			logger.Warnw("index registration incomplete, continuing", "error", err.Error())
		}
	})
	return nil
}

// Close releases the underlying pool.
func (ds *Datastore) Close() error {
	return ds.client.Close()
}

// Products returns the product store.
func (ds *Datastore) Products() ProductStore { return ds.products }

// Orders returns the order store.
func (ds *Datastore) Orders() OrderStore { return ds.orders }

// Users returns the user store.
func (ds *Datastore) Users() UserStore { return ds.users }

// Gallery returns the gallery store.
func (ds *Datastore) Gallery() GalleryStore { return ds.gallery }

// handle returns the live database handle, failing fast when the pool
// has not been established.
func (ds *Datastore) handle() (*mongo.Database, error) {
	return ds.client.Handle()
}
