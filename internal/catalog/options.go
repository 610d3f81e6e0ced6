package catalog

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/shopstack-io/shopstack/pkg/cache"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
	logopts "github.com/shopstack-io/shopstack/pkg/options/logger"
)

// Options aggregates all configuration for the catalog service.
type Options struct {
	Log   *logopts.Options
	Mongo *mongodb.Options
	Redis *cache.Options

	// Addr is the HTTP listen address.
	Addr string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// GinMode selects the gin runtime mode (debug|release|test).
	GinMode string
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Log:             logopts.NewOptions(),
		Mongo:           mongodb.NewOptions(),
		Redis:           cache.NewOptions(),
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		GinMode:         "release",
	}
}

// AddFlags adds all catalog flags to the given FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.Mongo.AddFlags(fs, "mongo.")
	o.Redis.AddFlags(fs, "redis.")

	fs.StringVar(&o.Addr, "http.addr", o.Addr, "HTTP listen address")
	fs.DurationVar(&o.ShutdownTimeout, "http.shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
	fs.StringVar(&o.GinMode, "http.gin-mode", o.GinMode, "Gin runtime mode (debug|release|test)")
}

// Validate validates all option groups.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log options: %w", err)
	}
	if err := o.Mongo.Validate(); err != nil {
		return fmt.Errorf("invalid mongo options: %w", err)
	}
	if err := o.Redis.Validate(); err != nil {
		return fmt.Errorf("invalid redis options: %w", err)
	}
	if o.Addr == "" {
		return fmt.Errorf("http.addr must not be empty")
	}
	return nil
}
