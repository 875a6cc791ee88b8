// Package conversation 提供对话生命周期管理
package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/linzhiyi/taskpilot/internal/model"
)

// Repository 对话仓库接口
type Repository interface {
	Create(conv *model.Conversation) error
	GetByOwner(conversationID, ownerID string) (*model.Conversation, error)
	ListByOwner(ownerID string, limit int) ([]*model.Conversation, error)
	Delete(conversationID, ownerID string) error
	AppendMessage(msg *model.Message) error
	RecentMessages(conversationID string, limit int) ([]*model.Message, error)
	Messages(conversationID string, limit int) ([]*model.Message, error)
	CountMessages(conversationID string) (int64, error)
}

// Service 对话服务
type Service struct {
	repo   Repository
	cache  *historyCache
	logger *zap.Logger
}

// NewService 创建对话服务
// redisClient 为 nil 时不启用历史缓存
func NewService(repo Repository, redisClient *redis.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		cache:  newHistoryCache(redisClient),
		logger: logger,
	}
}

// GetOrCreate 获取或创建对话
// conversationID 为空时创建新对话；非空时要求对话存在且属于 ownerID
func (s *Service) GetOrCreate(ctx context.Context, ownerID, conversationID string) (*model.Conversation, error) {
	if conversationID != "" {
		return s.repo.GetByOwner(conversationID, ownerID)
	}

	conv := &model.Conversation{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
	}
	if err := s.repo.Create(conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// AppendMessage 追加消息并更新对话时间戳
func (s *Service) AppendMessage(ctx context.Context, conversationID, role, content string) (*model.Message, error) {
	msg := &model.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	if err := s.repo.AppendMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	// 历史已变化，失效缓存
	if err := s.cache.invalidate(ctx, conversationID); err != nil {
		s.logger.Warn("failed to invalidate history cache",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
	}

	return msg, nil
}

// History 获取有界历史
// 最多返回最近 limit 条消息，窗口内按时间正序排列
func (s *Service) History(ctx context.Context, conversationID string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 20
	}

	if cached, ok := s.cache.load(ctx, conversationID, limit); ok {
		return cached, nil
	}

	messages, err := s.repo.RecentMessages(conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// 仓库按时间倒序返回，反转为正序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if err := s.cache.save(ctx, conversationID, limit, messages); err != nil {
		s.logger.Warn("failed to save history cache",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
	}

	return messages, nil
}

// Delete 删除对话及其全部消息
func (s *Service) Delete(ctx context.Context, conversationID, ownerID string) error {
	if err := s.repo.Delete(conversationID, ownerID); err != nil {
		return err
	}

	if err := s.cache.invalidate(ctx, conversationID); err != nil {
		s.logger.Warn("failed to invalidate history cache",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
	}
	return nil
}

// ConversationSummary 对话摘要
type ConversationSummary struct {
	ID           string `json:"id"`
	OwnerID      string `json:"user_id"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int64  `json:"message_count"`
}

// List 列出属主的对话及消息数
func (s *Service) List(ctx context.Context, ownerID string, limit int) ([]*ConversationSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	convs, err := s.repo.ListByOwner(ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries := make([]*ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		count, err := s.repo.CountMessages(conv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count messages: %w", err)
		}
		summaries = append(summaries, &ConversationSummary{
			ID:           conv.ID,
			OwnerID:      conv.OwnerID,
			CreatedAt:    conv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:    conv.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			MessageCount: count,
		})
	}
	return summaries, nil
}

// Messages 获取属主对话的消息列表，按时间正序
func (s *Service) Messages(ctx context.Context, ownerID, conversationID string, limit int) ([]*model.Message, error) {
	// 先校验归属
	if _, err := s.repo.GetByOwner(conversationID, ownerID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.Messages(conversationID, limit)
}
