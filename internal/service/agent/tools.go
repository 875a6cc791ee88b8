package agent

import (
	"github.com/cloudwego/eino/schema"

	toolsvc "github.com/linzhiyi/taskpilot/internal/service/tool"
)

// taskToolInfos 返回任务工具的模型侧定义
// 工具名与 dispatcher 支持的操作一一对应
func taskToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: toolsvc.ToolAddTask,
			Desc: "Add a new task to the user's todo list",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"title": {
					Type:     schema.String,
					Desc:     "Task title",
					Required: true,
				},
				"description": {
					Type: schema.String,
					Desc: "Optional task description",
				},
				"priority": {
					Type: schema.String,
					Desc: "Task priority: low, medium or high (default medium)",
					Enum: []string{"low", "medium", "high"},
				},
				"due_date": {
					Type: schema.String,
					Desc: "Optional due date, e.g. 2026-09-01 or RFC3339",
				},
			}),
		},
		{
			Name: toolsvc.ToolCompleteTask,
			Desc: "Mark an existing task as completed",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"task_id": {
					Type:     schema.String,
					Desc:     "ID of the task to complete",
					Required: true,
				},
			}),
		},
		{
			Name: toolsvc.ToolListTasks,
			Desc: "List the user's tasks, optionally filtered by completion status",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"completed": {
					Type: schema.Boolean,
					Desc: "Filter by completion status; omit for all tasks",
				},
				"limit": {
					Type: schema.Integer,
					Desc: "Maximum number of tasks to return",
				},
			}),
		},
		{
			Name: toolsvc.ToolUpdateTask,
			Desc: "Update fields of an existing task",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"task_id": {
					Type:     schema.String,
					Desc:     "ID of the task to update",
					Required: true,
				},
				"title": {
					Type: schema.String,
					Desc: "New task title",
				},
				"description": {
					Type: schema.String,
					Desc: "New task description",
				},
				"priority": {
					Type: schema.String,
					Desc: "New priority: low, medium or high",
					Enum: []string{"low", "medium", "high"},
				},
				"due_date": {
					Type: schema.String,
					Desc: "New due date, e.g. 2026-09-01 or RFC3339",
				},
			}),
		},
		{
			Name: toolsvc.ToolDeleteTask,
			Desc: "Delete a task from the user's todo list",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"task_id": {
					Type:     schema.String,
					Desc:     "ID of the task to delete",
					Required: true,
				},
			}),
		},
	}
}
