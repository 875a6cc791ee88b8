package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/linzhiyi/taskpilot/internal/service"
)

// ConversationHandler 对话处理器
type ConversationHandler struct {
	svc *service.Services
}

// NewConversationHandler 创建对话处理器
func NewConversationHandler(svc *service.Services) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// List 列出用户的对话
// GET /api/v1/users/:user_id/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	userID := c.Param("user_id")
	limit := getLimit(c, 50)

	conversations, err := h.svc.Conversation.List(c.Request.Context(), userID, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// Messages 获取对话消息列表
// GET /api/v1/users/:user_id/conversations/:conversation_id/messages
func (h *ConversationHandler) Messages(c *gin.Context) {
	userID := c.Param("user_id")
	conversationID := c.Param("conversation_id")
	limit := getLimit(c, 100)

	messages, err := h.svc.Conversation.Messages(c.Request.Context(), userID, conversationID, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"conversation_id": conversationID,
		"messages":        messages,
		"total":           len(messages),
	})
}

// Delete 删除对话及其消息
// DELETE /api/v1/users/:user_id/conversations/:conversation_id
func (h *ConversationHandler) Delete(c *gin.Context) {
	userID := c.Param("user_id")
	conversationID := c.Param("conversation_id")

	if err := h.svc.Conversation.Delete(c.Request.Context(), conversationID, userID); err != nil {
		errorResponse(c, err)
		return
	}

	noContent(c)
}
