package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/linzhiyi/taskpilot/internal/service"
	"github.com/linzhiyi/taskpilot/internal/service/chat"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ChatRequest 聊天请求
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// Chat 处理一个对话回合
// POST /api/v1/users/:user_id/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	userID := c.Param("user_id")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.svc.Chat.ProcessTurn(c.Request.Context(), &chat.TurnInput{
		OwnerID:        userID,
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, result)
}
