package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linzhiyi/taskpilot/internal/service"
	"github.com/linzhiyi/taskpilot/internal/service/task"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	svc *service.Services
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(svc *service.Services) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create 创建任务
// POST /api/v1/users/:user_id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID := c.Param("user_id")

	var req task.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := h.svc.Task.Create(c.Request.Context(), userID, &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	created(c, t)
}

// Get 获取任务
// GET /api/v1/users/:user_id/tasks/:task_id
func (h *TaskHandler) Get(c *gin.Context) {
	userID := c.Param("user_id")
	taskID := c.Param("task_id")

	t, err := h.svc.Task.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, t)
}

// List 列出任务
// GET /api/v1/users/:user_id/tasks?completed=true&limit=20
func (h *TaskHandler) List(c *gin.Context) {
	userID := c.Param("user_id")
	limit := getLimit(c, 20)

	var completed *bool
	if raw := c.Query("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid completed filter")
			return
		}
		completed = &v
	}

	tasks, err := h.svc.Task.List(c.Request.Context(), userID, completed, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// Update 更新任务
// PUT /api/v1/users/:user_id/tasks/:task_id
func (h *TaskHandler) Update(c *gin.Context) {
	userID := c.Param("user_id")
	taskID := c.Param("task_id")

	var req task.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := h.svc.Task.Update(c.Request.Context(), userID, taskID, &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, t)
}

// Complete 标记任务完成
// POST /api/v1/users/:user_id/tasks/:task_id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	userID := c.Param("user_id")
	taskID := c.Param("task_id")

	t, err := h.svc.Task.Complete(c.Request.Context(), userID, taskID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, t)
}

// Delete 删除任务
// DELETE /api/v1/users/:user_id/tasks/:task_id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID := c.Param("user_id")
	taskID := c.Param("task_id")

	if err := h.svc.Task.Delete(c.Request.Context(), userID, taskID); err != nil {
		errorResponse(c, err)
		return
	}

	noContent(c)
}
