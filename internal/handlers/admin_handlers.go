package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats is the handler for GET /v1/admin/dashboard.
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	stats, err := h.Catalog.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
