package httpapi

import (
	"net/http"

	"github.com/anhtu-vn/gochat/internal/chat"
	"github.com/anhtu-vn/gochat/internal/config"
	"github.com/anhtu-vn/gochat/internal/httpapi/handlers"
	"github.com/anhtu-vn/gochat/internal/httpapi/middleware"
	"github.com/gin-gonic/gin"
)

func NewRouter(store *chat.Store, svc *chat.Service, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	h := handlers.NewHandler(store, svc, cfg)

	r.GET("/ping", h.Ping)

	r.POST("/chat", h.PostChat)
	r.GET("/chat", h.GetChat)
	r.GET("/chat/:id", h.GetSession)
	r.DELETE("/chat/:id", h.DeleteSession)
	r.PATCH("/chat/:id", h.RenameSession)

	r.POST("/chat-completion", h.ChatCompletion)
	r.GET("/config", h.GetConfig)

	return r
}
