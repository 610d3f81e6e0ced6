package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack-io/shopstack/internal/catalog/store"
	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/cache"
	"github.com/shopstack-io/shopstack/pkg/component/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProducts is a scripted ProductStore that counts datastore hits,
// so tests can tell a cache hit from a fallthrough.
type fakeProducts struct {
	list       *model.ProductList
	product    *model.Product
	categories []string
	err        error

	listCalls int
	getCalls  int
}

func (f *fakeProducts) List(context.Context, *model.ProductFilter, *model.ListOptions) (*model.ProductList, error) {
	f.listCalls++
	return f.list, f.err
}

func (f *fakeProducts) Count(context.Context, *model.ProductFilter) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.list.TotalCount, nil
}

func (f *fakeProducts) Get(context.Context, string) (*model.Product, error) {
	f.getCalls++
	return f.product, f.err
}

func (f *fakeProducts) Create(_ context.Context, p *model.Product) error { return f.err }
func (f *fakeProducts) Update(context.Context, *model.Product) error     { return f.err }
func (f *fakeProducts) Delete(context.Context, string) error             { return f.err }

func (f *fakeProducts) Categories(context.Context) ([]string, error) {
	return f.categories, f.err
}

type fakeOrders struct {
	order *model.Order
	err   error
}

func (f *fakeOrders) Create(_ context.Context, o *model.Order) error { return f.err }

func (f *fakeOrders) Get(context.Context, string) (*model.Order, error) {
	return f.order, f.err
}

func (f *fakeOrders) ListRecent(context.Context, int64) ([]*model.Order, error) {
	return nil, f.err
}

func (f *fakeOrders) UpdateStatus(context.Context, string, string) error { return f.err }

type fakeUsers struct {
	user *model.User
	err  error

	getCalls int
}

func (f *fakeUsers) Create(context.Context, *model.User) error { return f.err }

func (f *fakeUsers) Get(context.Context, string) (*model.User, error) {
	f.getCalls++
	return f.user, f.err
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*model.User, error) {
	return f.user, f.err
}

func (f *fakeUsers) Count(context.Context) (int64, error) { return 0, f.err }

type fakeGallery struct {
	images []*model.GalleryImage
	err    error
}

func (f *fakeGallery) List(context.Context) ([]*model.GalleryImage, error) {
	return f.images, f.err
}

func (f *fakeGallery) Add(context.Context, *model.GalleryImage) error { return f.err }

// fakeFactory implements store.Factory over the scripted stores.
type fakeFactory struct {
	products *fakeProducts
	orders   *fakeOrders
	users    *fakeUsers
	gallery  *fakeGallery

	snapshot *model.AnalyticsSnapshot
	health   *model.HealthStatus
	err      error

	snapshotCalls int
}

func (f *fakeFactory) Products() store.ProductStore { return f.products }
func (f *fakeFactory) Orders() store.OrderStore     { return f.orders }
func (f *fakeFactory) Users() store.UserStore       { return f.users }
func (f *fakeFactory) Gallery() store.GalleryStore  { return f.gallery }

func (f *fakeFactory) DashboardAnalytics(context.Context) (*model.AnalyticsSnapshot, error) {
	f.snapshotCalls++
	return f.snapshot, f.err
}

func (f *fakeFactory) HealthCheck(context.Context) *model.HealthStatus { return f.health }
func (f *fakeFactory) Open(context.Context) error                      { return nil }
func (f *fakeFactory) Close() error                                    { return nil }

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	opts := cache.NewOptions()
	opts.Host = host
	opts.Port = port

	cacheStore := cache.New(opts)
	cacheStore.Connect(context.Background())
	require.True(t, cacheStore.Connected())
	t.Cleanup(func() { _ = cacheStore.Close() })

	return cacheStore
}

func newTestServer(t *testing.T, factory *fakeFactory) (*gin.Engine, *cache.Store) {
	t.Helper()

	cacheStore := newTestCache(t)
	h := New(factory, cacheStore, storage.NewManager())

	engine := gin.New()
	engine.GET("/healthz", h.Healthz)
	engine.GET("/healthz/components", h.Components)
	engine.GET("/api/v1/products", h.ListProducts)
	engine.GET("/api/v1/products/count", h.CountProducts)
	engine.GET("/api/v1/products/:id", h.GetProduct)
	engine.POST("/api/v1/products", h.CreateProduct)
	engine.PUT("/api/v1/products/:id", h.UpdateProduct)
	engine.DELETE("/api/v1/products/:id", h.DeleteProduct)
	engine.GET("/api/v1/categories", h.ListCategories)
	engine.GET("/api/v1/analytics/dashboard", h.Dashboard)
	engine.GET("/api/v1/gallery", h.ListGallery)
	engine.POST("/api/v1/gallery", h.AddGalleryImage)
	engine.POST("/api/v1/orders", h.CreateOrder)
	engine.GET("/api/v1/orders/:id", h.GetOrder)
	engine.PUT("/api/v1/orders/:id/status", h.UpdateOrderStatus)
	engine.POST("/api/v1/users", h.CreateUser)
	engine.GET("/api/v1/users/:id", h.GetUser)

	return engine, cacheStore
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func catalogFixture() *fakeFactory {
	return &fakeFactory{
		products: &fakeProducts{
			list: &model.ProductList{
				TotalCount: 2,
				Items: []*model.Product{
					{Name: "grinder", Category: "kitchen", Price: 129.99, Stock: 4},
					{Name: "kettle", Category: "kitchen", Price: 59.99, Stock: 12},
				},
			},
			product:    &model.Product{Name: "grinder", Category: "kitchen", Price: 129.99},
			categories: []string{"kitchen", "outdoors"},
		},
		orders: &fakeOrders{
			order: &model.Order{Status: model.OrderStatusPending, TotalPrice: 129.99},
		},
		users: &fakeUsers{
			user: &model.User{Name: "ada", Email: "ada@example.com", Role: model.RoleUser},
		},
		gallery: &fakeGallery{
			images: []*model.GalleryImage{{Title: "spring", ImageURL: "https://img/1.jpg"}},
		},
		snapshot: &model.AnalyticsSnapshot{
			Products: model.ProductStats{Count: 2, TotalStock: 16},
			Orders:   map[string]int64{"pending": 1},
		},
		health: &model.HealthStatus{Status: "healthy"},
	}
}

func TestListProductsCachesDefaultListing(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, factory.products.listCalls)

	// Second request is answered by the cache.
	w = doRequest(engine, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, factory.products.listCalls)
	assert.Contains(t, w.Body.String(), "grinder")
}

func TestListProductsFilteredBypassesCache(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	doRequest(engine, http.MethodGet, "/api/v1/products?category=kitchen", "")
	doRequest(engine, http.MethodGet, "/api/v1/products?category=kitchen", "")

	// Filters vary too much to cache; every request hits the store.
	assert.Equal(t, 2, factory.products.listCalls)
}

func TestGetProductCachedByID(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/api/v1/products/p1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, factory.products.getCalls)

	w = doRequest(engine, http.MethodGet, "/api/v1/products/p1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, factory.products.getCalls)
}

func TestGetProductNotFound(t *testing.T) {
	factory := catalogFixture()
	factory.products.product = nil
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProductInvalidatesListing(t *testing.T) {
	factory := catalogFixture()
	engine, cacheStore := newTestServer(t, factory)
	ctx := context.Background()

	// Warm the listing and category caches.
	doRequest(engine, http.MethodGet, "/api/v1/products", "")
	doRequest(engine, http.MethodGet, "/api/v1/categories", "")
	require.True(t, cacheStore.Exists(ctx, cache.KeyProducts))
	require.True(t, cacheStore.Exists(ctx, cache.KeyCategories))

	w := doRequest(engine, http.MethodPost, "/api/v1/products",
		`{"name":"thermos","category":"outdoors","price":24.5,"stock":3}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.False(t, cacheStore.Exists(ctx, cache.KeyProducts))
	assert.False(t, cacheStore.Exists(ctx, cache.KeyCategories))
	assert.False(t, cacheStore.Exists(ctx, cache.KeyDashboard))
}

func TestCreateProductAcceptsFreeProduct(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	// Price zero is a valid price, not a missing one.
	w := doRequest(engine, http.MethodPost, "/api/v1/products",
		`{"name":"sample sachet","category":"kitchen","price":0,"stock":100}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodPost, "/api/v1/products",
		`{"name":"grinder","category":"kitchen","price":-1,"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductRejectsInvalidBody(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodPost, "/api/v1/products", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProductDropsItsCacheEntry(t *testing.T) {
	factory := catalogFixture()
	engine, cacheStore := newTestServer(t, factory)
	ctx := context.Background()

	doRequest(engine, http.MethodGet, "/api/v1/products/p1", "")
	require.True(t, cacheStore.Exists(ctx, cache.ProductKey("p1")))

	w := doRequest(engine, http.MethodDelete, "/api/v1/products/p1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, cacheStore.Exists(ctx, cache.ProductKey("p1")))
}

func TestDeleteProductMissing(t *testing.T) {
	factory := catalogFixture()
	factory.products.err = mongo.ErrNoDocuments
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodDelete, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreDownMapsToServiceUnavailable(t *testing.T) {
	factory := catalogFixture()
	factory.products.err = storage.ErrNotConnected
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/api/v1/products?search=x", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDashboardCached(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	doRequest(engine, http.MethodGet, "/api/v1/analytics/dashboard", "")
	doRequest(engine, http.MethodGet, "/api/v1/analytics/dashboard", "")

	assert.Equal(t, 1, factory.snapshotCalls)
}

func TestDashboardError(t *testing.T) {
	factory := catalogFixture()
	factory.snapshot = nil
	factory.err = errors.New("all analytics branches failed")
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/api/v1/analytics/dashboard", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGalleryCachedAndInvalidatedOnAdd(t *testing.T) {
	factory := catalogFixture()
	engine, cacheStore := newTestServer(t, factory)
	ctx := context.Background()

	doRequest(engine, http.MethodGet, "/api/v1/gallery", "")
	require.True(t, cacheStore.Exists(ctx, cache.KeyGallery))

	w := doRequest(engine, http.MethodPost, "/api/v1/gallery",
		`{"title":"summer","imageUrl":"https://img/2.jpg"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, cacheStore.Exists(ctx, cache.KeyGallery))
}

func TestHealthzHealthy(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestHealthzUnhealthy(t *testing.T) {
	factory := catalogFixture()
	factory.health = &model.HealthStatus{Status: "unhealthy", Error: "no reachable servers"}
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetUserCachedByID(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodGet, "/api/v1/users/u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, factory.users.getCalls)
	// Password hashes never serialize.
	assert.NotContains(t, w.Body.String(), "password")

	w = doRequest(engine, http.MethodGet, "/api/v1/users/u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, factory.users.getCalls)
}

func TestCreateUserInvalidatesDashboard(t *testing.T) {
	factory := catalogFixture()
	engine, cacheStore := newTestServer(t, factory)
	ctx := context.Background()

	doRequest(engine, http.MethodGet, "/api/v1/analytics/dashboard", "")
	require.True(t, cacheStore.Exists(ctx, cache.KeyDashboard))

	w := doRequest(engine, http.MethodPost, "/api/v1/users",
		`{"name":"ada","email":"ada@example.com","password":"correcthorse"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, cacheStore.Exists(ctx, cache.KeyDashboard))
}

func TestCreateOrderInvalidatesDashboard(t *testing.T) {
	factory := catalogFixture()
	engine, cacheStore := newTestServer(t, factory)
	ctx := context.Background()

	doRequest(engine, http.MethodGet, "/api/v1/analytics/dashboard", "")
	require.True(t, cacheStore.Exists(ctx, cache.KeyDashboard))

	userID := primitive.NewObjectID().Hex()
	productID := primitive.NewObjectID().Hex()
	w := doRequest(engine, http.MethodPost, "/api/v1/orders",
		`{"user_id":"`+userID+`","items":[{"product_id":"`+productID+`","name":"grinder","quantity":2,"price":129.99}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, cacheStore.Exists(ctx, cache.KeyDashboard))
}

func TestCreateOrderRejectsMalformedIDs(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodPost, "/api/v1/orders",
		`{"user_id":"not-an-oid","items":[{"product_id":"also-bad","name":"x","quantity":1,"price":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	factory := catalogFixture()
	engine, _ := newTestServer(t, factory)

	w := doRequest(engine, http.MethodPut, "/api/v1/orders/o1/status", `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComponentsEndpoint(t *testing.T) {
	factory := catalogFixture()
	cacheStore := newTestCache(t)

	clients := storage.NewManager()
	clients.MustRegister(cacheStore.Name(), cacheStore)

	h := New(factory, cacheStore, clients)
	engine := gin.New()
	engine.GET("/healthz/components", h.Components)

	w := doRequest(engine, http.MethodGet, "/healthz/components", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis"`)
	assert.Contains(t, w.Body.String(), `"healthy":true`)
}
