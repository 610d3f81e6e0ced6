package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports liveness of the datastore and the cache. The cache
// being down degrades rather than fails the service, so it never turns
// the overall status unhealthy on its own.
func (h *Handler) Healthz(c *gin.Context) {
	status := h.store.HealthCheck(c.Request.Context())
	status.Cache = h.cache.Connected()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// Components pings every registered storage client and reports
// per-client latency. Diagnostic; always answers 200 so monitoring can
// read the breakdown even while a backend is down.
func (h *Handler) Components(c *gin.Context) {
	statuses := h.clients.HealthCheckAll(c.Request.Context())

	out := make(map[string]gin.H, len(statuses))
	for name, st := range statuses {
		entry := gin.H{
			"healthy": st.Healthy,
			"latency": st.Latency.String(),
		}
		if st.Error != nil {
			entry["error"] = st.Error.Error()
		}
		out[name] = entry
	}
	c.JSON(http.StatusOK, out)
}
