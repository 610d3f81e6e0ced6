package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/cache"
)

// Dashboard returns the analytics snapshot. The snapshot is expensive
// to assemble, so it gets a cached copy with a short lifetime.
func (h *Handler) Dashboard(c *gin.Context) {
	var cached model.AnalyticsSnapshot
	if h.cache.Get(c.Request.Context(), cache.KeyDashboard, &cached) {
		writeData(c, &cached)
		return
	}

	snap, err := h.store.DashboardAnalytics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.Set(c.Request.Context(), cache.KeyDashboard, snap, cache.TTLDashboard)
	writeData(c, snap)
}
