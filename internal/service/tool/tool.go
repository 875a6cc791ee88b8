// Package tool 提供工具分发器
// 将代理请求的一次工具调用转换为一次任务服务调用，
// 并把结果归一化为统一的结果信封；分发失败是数据而不是错误
package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/linzhiyi/taskpilot/internal/errs"
	"github.com/linzhiyi/taskpilot/internal/model"
	"github.com/linzhiyi/taskpilot/internal/service/task"
)

// 支持的工具名称
const (
	ToolAddTask      = "add_task"
	ToolCompleteTask = "complete_task"
	ToolListTasks    = "list_tasks"
	ToolUpdateTask   = "update_task"
	ToolDeleteTask   = "delete_task"
)

// Result 工具结果信封
// 统一包含 success 和 message，失败时附带 error，
// 各工具再补充操作相关字段（task_id、tasks、count 等）
type Result map[string]interface{}

// TaskService 任务服务接口
type TaskService interface {
	Create(ctx context.Context, ownerID string, req *task.CreateTaskRequest) (*model.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	Complete(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	List(ctx context.Context, ownerID string, completed *bool, limit int) ([]*model.Task, error)
	Update(ctx context.Context, ownerID, taskID string, req *task.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// Dispatcher 工具分发器
type Dispatcher struct {
	tasks     TaskService
	listLimit int
}

// NewDispatcher 创建工具分发器
func NewDispatcher(tasks TaskService, listLimit int) *Dispatcher {
	if listLimit <= 0 {
		listLimit = 20
	}
	return &Dispatcher{tasks: tasks, listLimit: listLimit}
}

// Dispatch 分发一次工具调用
// 永远不向外抛错误：底层失败被捕获进信封返回
func (d *Dispatcher) Dispatch(ctx context.Context, ownerID, name string, args map[string]interface{}) Result {
	if args == nil {
		args = map[string]interface{}{}
	}

	switch name {
	case ToolAddTask:
		return d.addTask(ctx, ownerID, args)
	case ToolCompleteTask:
		return d.completeTask(ctx, ownerID, args)
	case ToolListTasks:
		return d.listTasks(ctx, ownerID, args)
	case ToolUpdateTask:
		return d.updateTask(ctx, ownerID, args)
	case ToolDeleteTask:
		return d.deleteTask(ctx, ownerID, args)
	}

	return Result{
		"success": false,
		"error":   "unknown_tool",
		"message": fmt.Sprintf("Unknown tool: %s", name),
	}
}

// addTask 处理 add_task
func (d *Dispatcher) addTask(ctx context.Context, ownerID string, args map[string]interface{}) Result {
	req := &task.CreateTaskRequest{
		Title:       argString(args, "title"),
		Description: argString(args, "description"),
		Priority:    argString(args, "priority"),
		DueDate:     argString(args, "due_date"),
	}

	created, err := d.tasks.Create(ctx, ownerID, req)
	if err != nil {
		return failure(err, "Failed to add task: %v", err)
	}

	return Result{
		"success": true,
		"task_id": created.ID,
		"title":   created.Title,
		"message": fmt.Sprintf("Task '%s' added successfully", created.Title),
	}
}

// completeTask 处理 complete_task
func (d *Dispatcher) completeTask(ctx context.Context, ownerID string, args map[string]interface{}) Result {
	taskID := argString(args, "task_id")
	if taskID == "" {
		return failure(errs.ErrValidation, "Failed to complete task: task_id is required")
	}

	completed, err := d.tasks.Complete(ctx, ownerID, taskID)
	if err != nil {
		return failure(err, "Failed to complete task: %v", err)
	}

	return Result{
		"success": true,
		"task_id": completed.ID,
		"message": fmt.Sprintf("Task '%s' marked as completed", completed.Title),
	}
}

// listTasks 处理 list_tasks
func (d *Dispatcher) listTasks(ctx context.Context, ownerID string, args map[string]interface{}) Result {
	completed := argBool(args, "completed")
	limit := argInt(args, "limit", d.listLimit)

	tasks, err := d.tasks.List(ctx, ownerID, completed, limit)
	if err != nil {
		return failure(err, "Failed to list tasks: %v", err)
	}

	items := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskSummary(t))
	}

	return Result{
		"success": true,
		"tasks":   items,
		"count":   len(items),
		"message": fmt.Sprintf("Found %d tasks", len(items)),
	}
}

// updateTask 处理 update_task
func (d *Dispatcher) updateTask(ctx context.Context, ownerID string, args map[string]interface{}) Result {
	taskID := argString(args, "task_id")
	if taskID == "" {
		return failure(errs.ErrValidation, "Failed to update task: task_id is required")
	}

	req := &task.UpdateTaskRequest{
		Title:       argString(args, "title"),
		Description: argString(args, "description"),
		Priority:    argString(args, "priority"),
		DueDate:     argString(args, "due_date"),
	}

	updated, err := d.tasks.Update(ctx, ownerID, taskID, req)
	if err != nil {
		return failure(err, "Failed to update task: %v", err)
	}

	return Result{
		"success": true,
		"task_id": updated.ID,
		"message": fmt.Sprintf("Task '%s' updated successfully", updated.Title),
	}
}

// deleteTask 处理 delete_task
func (d *Dispatcher) deleteTask(ctx context.Context, ownerID string, args map[string]interface{}) Result {
	taskID := argString(args, "task_id")
	if taskID == "" {
		return failure(errs.ErrValidation, "Failed to delete task: task_id is required")
	}

	existing, err := d.tasks.Get(ctx, ownerID, taskID)
	if err != nil {
		return failure(err, "Failed to delete task: %v", err)
	}

	if err := d.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return failure(err, "Failed to delete task: %v", err)
	}

	return Result{
		"success": true,
		"task_id": taskID,
		"message": fmt.Sprintf("Task '%s' deleted successfully", existing.Title),
	}
}

// failure 构造失败信封
// NotFound 对调用方不区分不存在与无权访问
func failure(err error, format string, args ...interface{}) Result {
	if errs.IsNotFound(err) {
		return Result{
			"success": false,
			"message": "Task not found or access denied",
		}
	}
	return Result{
		"success": false,
		"error":   err.Error(),
		"message": fmt.Sprintf(format, args...),
	}
}

// taskSummary 构造任务摘要
func taskSummary(t *model.Task) map[string]interface{} {
	var due interface{}
	if t.DueDate != nil {
		due = t.DueDate.Format(time.RFC3339)
	}
	return map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"priority":    t.Priority,
		"due_date":    due,
	}
}

// ========== 参数提取 ==========

// argString 提取字符串参数
func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argBool 提取可选布尔参数，缺失或无法解释时返回 nil
func argBool(args map[string]interface{}, key string) *bool {
	switch v := args[key].(type) {
	case bool:
		return &v
	case string:
		switch v {
		case "true", "True":
			b := true
			return &b
		case "false", "False":
			b := false
			return &b
		}
	}
	return nil
}

// argInt 提取整数参数，JSON 解码后的数字是 float64
func argInt(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}
