// Package router wires the catalog endpoints onto a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/shopstack-io/shopstack/internal/catalog/handler"
	"github.com/shopstack-io/shopstack/internal/catalog/store"
	"github.com/shopstack-io/shopstack/pkg/cache"
	"github.com/shopstack-io/shopstack/pkg/component/storage"
)

// Register mounts the catalog routes on the engine.
func Register(engine *gin.Engine, factory store.Factory, cacheStore *cache.Store, clients *storage.Manager) {
	h := handler.New(factory, cacheStore, clients)

	engine.GET("/healthz", h.Healthz)
	engine.GET("/healthz/components", h.Components)

	v1 := engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/count", h.CountProducts)
			products.GET("/:id", h.GetProduct)
			products.POST("", h.CreateProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
		}

		v1.GET("/categories", h.ListCategories)
		v1.GET("/analytics/dashboard", h.Dashboard)

		orders := v1.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("/:id", h.GetOrder)
			orders.PUT("/:id/status", h.UpdateOrderStatus)
		}

		users := v1.Group("/users")
		{
			users.POST("", h.CreateUser)
			users.GET("/:id", h.GetUser)
		}

		gallery := v1.Group("/gallery")
		{
			gallery.GET("", h.ListGallery)
			gallery.POST("", h.AddGalleryImage)
		}
	}

	logger.Info("HTTP routes registered")
}
