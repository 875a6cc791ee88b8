// Package router 提供路由注册
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/linzhiyi/taskpilot/internal/handler"
	"github.com/linzhiyi/taskpilot/internal/middleware"
)

// HealthChecker 健康检查依赖
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, db HealthChecker, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.CORSMiddleware())

	// 健康检查，包含数据库存活探测
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			if err := db.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users/:user_id")
		{
			// Chat 聊天
			users.POST("/chat", h.Chat.Chat)

			// Conversation 对话
			conversations := users.Group("/conversations")
			{
				conversations.GET("", h.Conversation.List)
				conversations.GET("/:conversation_id/messages", h.Conversation.Messages)
				conversations.DELETE("/:conversation_id", h.Conversation.Delete)
			}

			// Task 任务
			tasks := users.Group("/tasks")
			{
				tasks.POST("", h.Task.Create)
				tasks.GET("", h.Task.List)
				tasks.GET("/:task_id", h.Task.Get)
				tasks.PUT("/:task_id", h.Task.Update)
				tasks.POST("/:task_id/complete", h.Task.Complete)
				tasks.DELETE("/:task_id", h.Task.Delete)
			}
		}
	}

	return r
}
