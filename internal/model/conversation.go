package model

import "time"

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation 对话
type Conversation struct {
	ID        string    `gorm:"primaryKey;size:36"`
	OwnerID   string    `gorm:"index;size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
	Messages  []Message `gorm:"foreignKey:ConversationID"`
}

// Message 对话消息
type Message struct {
	ID             string    `gorm:"primaryKey;size:36"`
	ConversationID string    `gorm:"index;size:36"`
	Role           string    `gorm:"size:20"` // user, assistant
	Content        string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}

func (Message) TableName() string {
	return "messages"
}
