// Package task 提供任务存储服务
// 所有操作按属主隔离，变更操作由仓库层保证单事务原子性
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linzhiyi/taskpilot/internal/errs"
	"github.com/linzhiyi/taskpilot/internal/model"
)

// Repository 任务仓库接口
type Repository interface {
	Create(task *model.Task) error
	GetByOwner(ownerID, taskID string) (*model.Task, error)
	ListByOwner(ownerID string, completed *bool, limit int) ([]*model.Task, error)
	Mutate(ownerID, taskID string, apply func(*model.Task)) (*model.Task, error)
	Delete(ownerID, taskID string) error
}

// Service 任务服务
type Service struct {
	repo Repository
}

// NewService 创建任务服务
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// UpdateTaskRequest 更新任务请求
// 空字段保持原值，不支持清空
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// Create 创建任务
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateTaskRequest) (*model.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errs.Validationf("task title is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, errs.Validationf("invalid priority %q", req.Priority)
	}

	task := &model.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		Priority:    priority,
		DueDate:     parseDueDate(req.DueDate),
	}

	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get 获取任务
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	return s.repo.GetByOwner(ownerID, taskID)
}

// Complete 将任务标记为完成，重复调用仍然成功
func (s *Service) Complete(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := s.repo.Mutate(ownerID, taskID, func(t *model.Task) {
		t.Completed = true
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return task, nil
}

// List 列出任务，按创建时间倒序
// completed 为 nil 时返回全部任务
func (s *Service) List(ctx context.Context, ownerID string, completed *bool, limit int) ([]*model.Task, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	tasks, err := s.repo.ListByOwner(ownerID, completed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update 部分更新任务，仅应用非空字段
func (s *Service) Update(ctx context.Context, ownerID, taskID string, req *UpdateTaskRequest) (*model.Task, error) {
	if req.Priority != "" && !model.ValidPriority(req.Priority) {
		return nil, errs.Validationf("invalid priority %q", req.Priority)
	}

	task, err := s.repo.Mutate(ownerID, taskID, func(t *model.Task) {
		if req.Title != "" {
			t.Title = req.Title
		}
		if req.Description != "" {
			t.Description = req.Description
		}
		if req.Priority != "" {
			t.Priority = req.Priority
		}
		if due := parseDueDate(req.DueDate); due != nil {
			t.DueDate = due
		}
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete 删除任务
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.repo.Delete(ownerID, taskID); err != nil {
		if errs.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// parseDueDate 解析截止时间
// 解析失败返回 nil，任务照常创建或更新（宽容策略）
func parseDueDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
