// Package testutil 提供测试辅助工具
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/linzhiyi/taskpilot/internal/model"
)

// NewTask 创建测试任务
func NewTask(ownerID, title string) *model.Task {
	now := time.Now()
	return &model.Task{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewConversation 创建测试对话
func NewConversation(ownerID string) *model.Conversation {
	now := time.Now()
	return &model.Conversation{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewMessage 创建测试消息
func NewMessage(conversationID, role, content string) *model.Message {
	return &model.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// AssertHelper 提供断言相关的测试辅助
type AssertHelper struct {
	t *testing.T
}

// NewAssertHelper 创建断言辅助器
func NewAssertHelper(t *testing.T) *AssertHelper {
	return &AssertHelper{t: t}
}

// NoError 断言没有错误
func (h *AssertHelper) NoError(err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("Unexpected error: %v", err)
	}
}

// Error 断言有错误
func (h *AssertHelper) Error(err error) {
	h.t.Helper()
	if err == nil {
		h.t.Fatal("Expected error, got nil")
	}
}

// ErrorContains 断言错误包含指定字符串
func (h *AssertHelper) ErrorContains(err error, substr string) {
	h.t.Helper()
	if err == nil {
		h.t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), substr) {
		h.t.Fatalf("Error %q does not contain %q", err.Error(), substr)
	}
}

// Equal 断言相等
func (h *AssertHelper) Equal(expected, actual interface{}) {
	h.t.Helper()
	if expected != actual {
		h.t.Fatalf("Expected %v, got %v", expected, actual)
	}
}

// True 断言为真
func (h *AssertHelper) True(condition bool, msg string) {
	h.t.Helper()
	if !condition {
		h.t.Fatalf("Expected true: %s", msg)
	}
}
