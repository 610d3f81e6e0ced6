// Package catalog assembles the catalog service: configuration, the
// MongoDB datastore, the Redis cache, and the HTTP surface.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shopstack-io/shopstack/internal/catalog/router"
	"github.com/shopstack-io/shopstack/internal/catalog/store"
	"github.com/shopstack-io/shopstack/pkg/cache"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
	"github.com/shopstack-io/shopstack/pkg/component/storage"
	"github.com/shopstack-io/shopstack/pkg/infra/pool"
)

const (
	appName        = "shopstack-catalog"
	appDescription = `ShopStack Catalog Service

The data access and caching layer for the ShopStack storefront.

This server provides:
  - Product catalog queries with pagination and filtering
  - Dashboard analytics aggregation
  - Read-through Redis caching`
)

// NewCommand creates the root cobra command for the catalog service.
func NewCommand() *cobra.Command {
	opts := NewOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "ShopStack catalog service",
		Long:         appDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd, configFile)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			return Run(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file")
	opts.AddFlags(cmd.Flags())

	return cmd
}

// loadConfig merges the config file and SHOPSTACK_ environment
// variables into the flag set. Explicit flags win over both.
func loadConfig(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOPSTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		// Slice flags may arrive as a list in the config file; scalar
		// coercion would flatten them to an empty string.
		value := v.GetString(f.Name)
		if strings.HasSuffix(f.Value.Type(), "Slice") {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}

// Run starts the catalog service and blocks until shutdown.
func Run(opts *Options) error {
	// 1. Initialize logging
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting catalog service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize the MongoDB pool and the datastore
	mongoClient, err := mongodb.NewClient(opts.Mongo)
	if err != nil {
		return fmt.Errorf("failed to initialize mongodb: %w", err)
	}

	workers, err := pool.New("analytics", pool.AnalyticsConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize worker pool: %w", err)
	}
	defer workers.Release()

	ds := store.New(mongoClient, workers)
	if err := ds.Open(ctx); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() { _ = ds.Close() }()
	logger.Info("Datastore initialized")

	// 3. Initialize the cache. A cache that cannot connect degrades
	// the service to uncached reads instead of failing startup.
	cacheStore := cache.New(opts.Redis)
	cacheStore.Connect(ctx)
	defer func() { _ = cacheStore.Close() }()

	// 4. Register storage clients for health reporting
	manager := storage.NewManager()
	manager.MustRegister(mongoClient.Name(), mongoClient)
	manager.MustRegister(cacheStore.Name(), cacheStore)

	// 5. Build the HTTP surface
	gin.SetMode(opts.GinMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	router.Register(engine, ds, cacheStore, manager)

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: engine,
	}

	// 6. Serve until signalled
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// 7. Graceful shutdown
	logger.Info("Shutting down catalog service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("Catalog service stopped")
	return nil
}
