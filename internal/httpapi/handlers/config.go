package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetConfig reports which capabilities are enabled. Secrets never leave the
// process; only presence booleans do.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hasOpenAI":       h.Cfg.HasOpenAI(),
		"hasGoogleSearch": h.Cfg.HasGoogleSearch(),
		"hasBingSearch":   h.Cfg.HasBingSearch(),
	})
}
