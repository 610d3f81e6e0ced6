// Package handler exposes the catalog over HTTP. Read endpoints are
// cache-aside: serve from the cache when a fresh value exists, fall
// through to the datastore otherwise and repopulate. Write endpoints
// invalidate every cache entry the write can render stale.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack-io/shopstack/internal/catalog/store"
	"github.com/shopstack-io/shopstack/pkg/cache"
	"github.com/shopstack-io/shopstack/pkg/component/storage"
)

// Handler carries the dependencies shared by all catalog endpoints.
type Handler struct {
	store   store.Factory
	cache   *cache.Store
	clients *storage.Manager
}

// New creates a Handler over the given datastore, cache, and storage
// client registry.
func New(factory store.Factory, cacheStore *cache.Store, clients *storage.Manager) *Handler {
	return &Handler{
		store:   factory,
		cache:   cacheStore,
		clients: clients,
	}
}

// Response is the uniform envelope for all endpoints.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "ok",
		Data:    data,
	})
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	c.JSON(status, Response{
		Code:    status,
		Message: err.Error(),
	})
}

func writeNotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{
		Code:    http.StatusNotFound,
		Message: msg,
	})
}

func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: msg,
	})
}

// statusOf maps storage errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrNotConnected),
		errors.Is(err, storage.ErrConnectionFailed),
		errors.Is(err, storage.ErrTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
