// Package api exposes the chat service over HTTP for the web UI.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dskvich/ollama-webui/pkg/api/handler"
	"github.com/dskvich/ollama-webui/pkg/api/middleware"
)

type Service interface {
	handler.ChatService
	handler.ModelService
}

func NewRouter(svc Service, authenticator middleware.Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	models := handler.NewModels(svc)
	chat := handler.NewChat(svc)

	r.GET("/health", models.Health)

	apiGroup := r.Group("/api", middleware.Auth(authenticator), middleware.Session())
	{
		apiGroup.GET("/connection", models.Connection)
		apiGroup.GET("/models", models.List)
		apiGroup.GET("/models/items", models.Items)
		apiGroup.GET("/models/image-items", models.ImageItems)
		apiGroup.POST("/models/pull", models.Pull)
		apiGroup.GET("/models/pull/*model", models.PullStatus)
		apiGroup.GET("/library", models.Library)

		apiGroup.POST("/chat", chat.Ask)
		apiGroup.POST("/chat/images", chat.AskWithImages)
		apiGroup.GET("/chat/history", chat.History)
		apiGroup.DELETE("/chat/history", chat.ClearHistory)
	}

	return r
}
