package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/linzhiyi/taskpilot/internal/errs"
	"github.com/linzhiyi/taskpilot/internal/model"
)

// TaskRepository 任务数据访问
// 所有查询同时按任务 ID 和属主过滤，属主不匹配与不存在不做区分；
// 每个变更操作使用独立事务，不持有跨操作的长连接
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓库
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create 创建任务
func (r *TaskRepository) Create(task *model.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(task).Error
	})
}

// GetByOwner 获取属主的任务
func (r *TaskRepository) GetByOwner(ownerID, taskID string) (*model.Task, error) {
	var task model.Task
	err := r.db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("task %s", taskID)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner 列出属主的任务，按创建时间倒序
// completed 为 nil 时不过滤完成状态
func (r *TaskRepository) ListByOwner(ownerID string, completed *bool, limit int) ([]*model.Task, error) {
	var tasks []*model.Task
	query := r.db.Where("owner_id = ?", ownerID)
	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&tasks).Error
	return tasks, err
}

// Mutate 在单个事务内读取并修改任务，任一步失败则整体回滚
func (r *TaskRepository) Mutate(ownerID, taskID string, apply func(*model.Task)) (*model.Task, error) {
	var task model.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error; err != nil {
			return err
		}
		apply(&task)
		return tx.Save(&task).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("task %s", taskID)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete 删除属主的任务
func (r *TaskRepository) Delete(ownerID, taskID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&model.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFoundf("task %s", taskID)
		}
		return nil
	})
}
