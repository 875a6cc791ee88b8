// Package chat 提供对话回合编排
package chat

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linzhiyi/taskpilot/internal/errs"
	"github.com/linzhiyi/taskpilot/internal/model"
	"github.com/linzhiyi/taskpilot/internal/service/agent"
	"github.com/linzhiyi/taskpilot/internal/service/tool"
)

// ConversationStore 编排器依赖的对话存储接口
type ConversationStore interface {
	GetOrCreate(ctx context.Context, ownerID, conversationID string) (*model.Conversation, error)
	AppendMessage(ctx context.Context, conversationID, role, content string) (*model.Message, error)
	History(ctx context.Context, conversationID string, limit int) ([]*model.Message, error)
}

// ToolExecutor 编排器依赖的工具执行接口
type ToolExecutor interface {
	Dispatch(ctx context.Context, ownerID, name string, args map[string]interface{}) tool.Result
}

// Service 对话编排服务
type Service struct {
	conversations ConversationStore
	tools         ToolExecutor
	agent         agent.TurnProcessor
	historyLimit  int
	logger        *zap.Logger
}

// NewService 创建对话编排服务
func NewService(conversations ConversationStore, tools ToolExecutor, processor agent.TurnProcessor, historyLimit int, logger *zap.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		conversations: conversations,
		tools:         tools,
		agent:         processor,
		historyLimit:  historyLimit,
		logger:        logger,
	}
}

// TurnInput 对话回合输入
type TurnInput struct {
	OwnerID        string
	ConversationID string
	Message        string
}

// ToolCallRecord 已执行的工具调用记录
type ToolCallRecord struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
	Result    tool.Result            `json:"result"`
}

// TurnResult 对话回合结果
type TurnResult struct {
	ConversationID string           `json:"conversation_id"`
	Response       string           `json:"response"`
	ToolCalls      []ToolCallRecord `json:"tool_calls"`
	ResponseTime   float64          `json:"response_time"`
}

// ProcessTurn 处理一个完整的对话回合
// 空消息直接拒绝，不产生任何持久化副作用
func (s *Service) ProcessTurn(ctx context.Context, in *TurnInput) (*TurnResult, error) {
	start := time.Now()

	// 入站事件在会话解析之前记录，解析失败的回合同样留痕
	s.logger.Info("chat turn received",
		zap.String("user_id", in.OwnerID),
		zap.String("conversation_id", in.ConversationID))

	if strings.TrimSpace(in.Message) == "" {
		return nil, errs.ErrInvalidMessage
	}

	conv, err := s.conversations.GetOrCreate(ctx, in.OwnerID, in.ConversationID)
	if err != nil {
		return nil, s.turnError(in.OwnerID, in.ConversationID, "resolve_conversation", err)
	}

	// 先持久化用户消息，再取历史，保证历史包含本回合输入
	if _, err := s.conversations.AppendMessage(ctx, conv.ID, model.RoleUser, in.Message); err != nil {
		return nil, s.turnError(in.OwnerID, conv.ID, "append_user_message", err)
	}

	history, err := s.conversations.History(ctx, conv.ID, s.historyLimit)
	if err != nil {
		return nil, s.turnError(in.OwnerID, conv.ID, "load_history", err)
	}

	turn, err := s.agent.ProcessTurn(ctx, &agent.TurnRequest{
		OwnerID: in.OwnerID,
		Message: in.Message,
		History: history,
	})
	if err != nil {
		return nil, s.turnError(in.OwnerID, conv.ID, "agent", err)
	}

	// 逐个执行工具调用，单个失败不影响其余调用
	toolCalls := make([]ToolCallRecord, 0, len(turn.ToolCalls))
	for _, call := range turn.ToolCalls {
		result := s.tools.Dispatch(ctx, in.OwnerID, call.Tool, call.Arguments)
		toolCalls = append(toolCalls, ToolCallRecord{
			Tool:      call.Tool,
			Arguments: call.Arguments,
			Result:    result,
		})

		success, _ := result["success"].(bool)
		s.logger.Info("tool call executed",
			zap.String("user_id", in.OwnerID),
			zap.String("conversation_id", conv.ID),
			zap.String("tool", call.Tool),
			zap.Bool("success", success))
	}

	// 空回复不持久化，但回合仍视为成功
	if turn.Response != "" {
		if _, err := s.conversations.AppendMessage(ctx, conv.ID, model.RoleAssistant, turn.Response); err != nil {
			return nil, s.turnError(in.OwnerID, conv.ID, "append_assistant_message", err)
		}
	}

	elapsed := time.Since(start).Seconds()
	s.logger.Info("chat turn completed",
		zap.String("user_id", in.OwnerID),
		zap.String("conversation_id", conv.ID),
		zap.Int("tool_calls", len(toolCalls)),
		zap.Float64("response_time", elapsed))

	return &TurnResult{
		ConversationID: conv.ID,
		Response:       turn.Response,
		ToolCalls:      toolCalls,
		ResponseTime:   elapsed,
	}, nil
}

// turnError 已分类的领域错误直接透传，未分类失败带属主上下文记录错误日志
func (s *Service) turnError(ownerID, conversationID, stage string, err error) error {
	if errs.IsNotFound(err) || errs.IsValidation(err) || errs.IsInvalidMessage(err) {
		return err
	}
	s.logger.Error("chat turn failed",
		zap.String("user_id", ownerID),
		zap.String("conversation_id", conversationID),
		zap.String("stage", stage),
		zap.Error(err))
	return err
}
