package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"node-health-watcher/internal/features/watcher/domain"
)

// StatusHandler exposes the watcher's current view of the cluster
type StatusHandler struct {
	watcher domain.Provider
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(watcher domain.Provider) *StatusHandler {
	if watcher == nil {
		panic("watcher provider cannot be nil")
	}

	return &StatusHandler{
		watcher: watcher,
	}
}

// SetupRoutes registers handler routes to the router
func (h *StatusHandler) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/status")
	{
		api.GET("/watcher", h.getWatcherStatus)
	}
}

// getWatcherStatus returns the store contents, pending sets and flush
// deadline as one snapshot
func (h *StatusHandler) getWatcherStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.watcher.Status())
}
