package model

import "time"

// 任务优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task 任务
type Task struct {
	ID          string     `gorm:"primaryKey;size:36"`
	OwnerID     string     `gorm:"index;size:64"`
	Title       string     `gorm:"size:255"`
	Description string     `gorm:"type:text"`
	Completed   bool       `gorm:"index;default:false"`
	Priority    string     `gorm:"size:20;default:medium"`
	DueDate     *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}

// ValidPriority 检查优先级是否合法
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
