package handlers

import (
	"errors"
	"net/http"

	"github.com/anhtu-vn/gochat/internal/chat"
	"github.com/anhtu-vn/gochat/internal/common"
	"github.com/anhtu-vn/gochat/internal/config"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *chat.Store
	Svc   *chat.Service
	Cfg   config.Config
}

func NewHandler(store *chat.Store, svc *chat.Service, cfg config.Config) *Handler {
	return &Handler{Store: store, Svc: svc, Cfg: cfg}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// writeError maps component failures onto HTTP statuses. Bodies carry a
// human-readable message only; no structured codes beyond the status.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrUpstream):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
