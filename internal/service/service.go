// Package service 组装业务服务
package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/linzhiyi/taskpilot/internal/config"
	"github.com/linzhiyi/taskpilot/internal/repository"
	"github.com/linzhiyi/taskpilot/internal/service/agent"
	"github.com/linzhiyi/taskpilot/internal/service/chat"
	"github.com/linzhiyi/taskpilot/internal/service/conversation"
	"github.com/linzhiyi/taskpilot/internal/service/task"
	"github.com/linzhiyi/taskpilot/internal/service/tool"
)

// Services 服务集合
type Services struct {
	Task         *task.Service
	Conversation *conversation.Service
	Tool         *tool.Dispatcher
	Agent        *agent.Agent
	Chat         *chat.Service
}

// NewServices 创建服务集合
// redisClient 为 nil 时历史缓存降级为直连数据库
func NewServices(repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *Services {
	taskSvc := task.NewService(repos.Task)
	convSvc := conversation.NewService(repos.Conversation, redisClient, logger)
	dispatcher := tool.NewDispatcher(taskSvc, cfg.Chat.TaskListLimit)
	agentSvc := agent.New(cfg)
	chatSvc := chat.NewService(convSvc, dispatcher, agentSvc, cfg.Chat.HistoryLimit, logger)

	return &Services{
		Task:         taskSvc,
		Conversation: convSvc,
		Tool:         dispatcher,
		Agent:        agentSvc,
		Chat:         chatSvc,
	}
}
