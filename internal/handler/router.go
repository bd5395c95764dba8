package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborpoint/dealroom/internal/middleware"
)

type RouterDeps struct {
	Investments   *InvestmentHandler
	Documents     *DocumentHandler
	Assistant     *AssistantHandler
	ChatRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/investments", deps.Investments.List)
	api.GET("/investments/:id", deps.Investments.Get)
	api.GET("/investments/:id/documents", deps.Documents.List)

	chat := api.Group("")
	chat.Use(middleware.RateLimit(deps.ChatRateLimit))
	chat.POST("/investments/:id/assistant/chat", deps.Assistant.Chat)

	api.GET("/conversations/:id", deps.Assistant.Conversation)
}
