// Package mongodb provides the pooled MongoDB client for shopstack.
//
// The client owns a single lazily-established connection pool per
// process. Connect is idempotent, Handle fails fast when no live pool
// exists, and Close releases the pool so a later Connect re-dials.
package mongodb

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shopstack-io/shopstack/pkg/component/storage"
)

// Client wraps mongo.Client behind the storage.Client interface.
//
// Unlike the driver, Client separates construction from dialing: NewClient
// only validates configuration, and the pool is established by Connect.
// All methods are safe for concurrent use; concurrent Connect calls are
// folded into the first one.
type Client struct {
	mu       sync.Mutex
	client   *mongo.Client
	database *mongo.Database
	opts     *Options
}

// Compile-time check that Client implements storage.Client.
var _ storage.Client = (*Client)(nil)

// NewClient creates an unconnected client from the provided options.
// No I/O happens here; call Connect to establish the pool.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil {
		return nil, storage.ErrInvalidConfig.WithMessage("mongodb options cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, storage.ErrInvalidConfig.WithCause(err)
	}
	return &Client{opts: opts}, nil
}

// Connect establishes the connection pool and verifies it with a ping.
// It is idempotent: if a live pool already exists it returns immediately
// without re-dialing, so racing callers share one pool.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	clientOpts := c.buildClientOptions()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return storage.ErrConnectionFailed.WithCause(err)
	}

	// The driver connects lazily; ping to verify the pool is usable
	// before handing it out.
	pingCtx, cancel := context.WithTimeout(ctx, c.opts.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return storage.ErrConnectionFailed.WithCause(err)
	}

	c.client = client
	c.database = client.Database(c.opts.Database)
	return nil
}

// buildClientOptions translates Options into driver options: pool bounds,
// idle reclamation, the three timeout classes, read preference, and one
// transparent retry for both reads and writes on transient network errors.
func (c *Client) buildClientOptions() *mongoopts.ClientOptions {
	clientOpts := mongoopts.Client().ApplyURI(c.opts.BuildURI())

	if c.opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(c.opts.MaxPoolSize)
	}
	if c.opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(c.opts.MinPoolSize)
	}
	if c.opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(c.opts.MaxConnIdleTime)
	}
	if c.opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(c.opts.ConnectTimeout)
	}
	if c.opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(c.opts.SocketTimeout)
	}
	if c.opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(c.opts.ServerSelectionTimeout)
	}

	// Reads tolerate secondary staleness in exchange for spreading load
	// off the primary. Falls back to the primary when no secondary is
	// available, so this never affects availability.
	clientOpts.SetReadPreference(c.readPreference())
	clientOpts.SetRetryWrites(true)
	clientOpts.SetRetryReads(true)

	if c.opts.Direct {
		clientOpts.SetDirect(true)
	}

	return clientOpts
}

func (c *Client) readPreference() *readpref.ReadPref {
	switch c.opts.ReadPreference {
	case "primary":
		return readpref.Primary()
	case "primaryPreferred":
		return readpref.PrimaryPreferred()
	case "secondary":
		return readpref.Secondary()
	case "nearest":
		return readpref.Nearest()
	default:
		return readpref.SecondaryPreferred()
	}
}

// Connected reports whether a live pool exists.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// Handle returns the default database handle, failing fast with
// ErrNotConnected when no live pool exists. Callers must never operate
// on a nil handle.
func (c *Client) Handle() (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, storage.ErrNotConnected.WithMessage("mongodb pool has not been established")
	}
	return c.database, nil
}

// Collection returns a collection from the default database, with the
// same fail-fast behavior as Handle.
func (c *Client) Collection(name string) (*mongo.Collection, error) {
	db, err := c.Handle()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Name returns the storage type identifier.
// Implements storage.Client interface.
func (c *Client) Name() string {
	return "mongodb"
}

// Ping checks if the pool is alive.
// Implements storage.Client interface.
func (c *Client) Ping(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return storage.ErrNotConnected.WithMessage("mongodb pool has not been established")
	}
	return client.Ping(ctx, nil)
}

// Close releases the pool and flips the client back to disconnected.
// Calling it twice is safe; the second call is a no-op. After Close a
// later Connect establishes a fresh pool rather than reusing the old one.
// Implements storage.Client interface.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := c.client.Disconnect(ctx)
	c.client = nil
	c.database = nil
	return err
}

// Health returns a HealthChecker for the pool.
// Implements storage.Client interface.
func (c *Client) Health() storage.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return c.Ping(ctx)
	}
}

// Raw returns the underlying mongo.Client, or nil when disconnected.
// It exists for diagnostics that need driver features the wrapper does
// not expose.
func (c *Client) Raw() *mongo.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}
