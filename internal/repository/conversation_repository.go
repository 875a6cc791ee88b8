package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/linzhiyi/taskpilot/internal/errs"
	"github.com/linzhiyi/taskpilot/internal/model"
)

// ConversationRepository 对话数据访问
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建对话仓库
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create 创建对话
func (r *ConversationRepository) Create(conv *model.Conversation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(conv).Error
	})
}

// GetByOwner 获取属主的对话
func (r *ConversationRepository) GetByOwner(conversationID, ownerID string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("id = ? AND owner_id = ?", conversationID, ownerID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("conversation %s", conversationID)
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByOwner 列出属主的对话，按更新时间倒序
func (r *ConversationRepository) ListByOwner(ownerID string, limit int) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&convs).Error
	return convs, err
}

// Delete 删除属主的对话并级联删除其全部消息，单事务内完成
func (r *ConversationRepository) Delete(conversationID, ownerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", conversationID, ownerID).Delete(&model.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFoundf("conversation %s", conversationID)
		}
		return tx.Delete(&model.Message{}, "conversation_id = ?", conversationID).Error
	})
}

// AppendMessage 追加消息并更新对话的更新时间，单事务内完成
func (r *ConversationRepository) AppendMessage(msg *model.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			UpdateColumn("updated_at", time.Now()).Error
	})
}

// RecentMessages 获取对话最近的 N 条消息，按创建时间倒序返回
func (r *ConversationRepository) RecentMessages(conversationID string, limit int) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Messages 获取对话消息，按创建时间正序
func (r *ConversationRepository) Messages(conversationID string, limit int) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// CountMessages 统计对话消息数
func (r *ConversationRepository) CountMessages(conversationID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
