// Package handler 提供 HTTP 处理器
package handler

import (
	"github.com/linzhiyi/taskpilot/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Task         *TaskHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:         NewChatHandler(svc),
		Conversation: NewConversationHandler(svc),
		Task:         NewTaskHandler(svc),
	}
}
