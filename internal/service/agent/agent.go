// Package agent 提供基于 eino 的对话回合处理
// 模型只负责生成回复与工具调用意图，工具的实际执行由调用方完成
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/linzhiyi/taskpilot/internal/config"
	"github.com/linzhiyi/taskpilot/internal/model"
)

// systemPrompt 任务助手的系统提示词
const systemPrompt = `You are a helpful task management assistant. You help users manage their todo list through natural conversation.

You can add tasks, complete tasks, list tasks, update tasks, and delete tasks using the provided tools. When the user asks about their tasks or wants to change them, call the appropriate tool. Otherwise, respond conversationally.

Keep your responses concise and friendly. After a tool call, summarize the outcome for the user in natural language.`

// ToolRequest 模型请求的单次工具调用意图
type ToolRequest struct {
	Tool      string
	Arguments map[string]interface{}
}

// TurnRequest 对话回合请求
type TurnRequest struct {
	OwnerID string
	Message string
	// History 含本回合用户消息在内的有界历史，按时间正序
	History []*model.Message
}

// TurnResponse 对话回合响应
type TurnResponse struct {
	Response     string
	ToolCalls    []ToolRequest
	ResponseTime float64
}

// TurnProcessor 回合处理器接口
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error)
}

// Agent 基于 ToolCallingChatModel 的回合处理器
type Agent struct {
	cfg *config.Config
}

// New 创建回合处理器
func New(cfg *config.Config) *Agent {
	return &Agent{cfg: cfg}
}

// newToolCallingChatModel 创建支持工具调用的 ChatModel
func (a *Agent) newToolCallingChatModel(ctx context.Context) (einomodel.ToolCallingChatModel, error) {
	aiCfg := a.cfg.AI

	var apiKey, baseURL, modelName string

	switch aiCfg.Provider {
	case "openai":
		apiKey = aiCfg.OpenAI.APIKey
		baseURL = aiCfg.OpenAI.BaseURL
		modelName = aiCfg.OpenAI.Model
	case "alibaba", "qwen", "dashscope":
		apiKey = aiCfg.Alibaba.AccessKeySecret
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
		modelName = aiCfg.Alibaba.Model
	case "deepseek":
		apiKey = aiCfg.DeepSeek.APIKey
		baseURL = aiCfg.DeepSeek.BaseURL
		modelName = aiCfg.DeepSeek.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", aiCfg.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", aiCfg.Provider)
	}

	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	temperature := float32(0.7)

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       modelName,
		Temperature: &temperature,
	})
}

// ProcessTurn 处理一个对话回合
// 只调用一次模型；返回的工具调用作为意图交给调用方执行
func (a *Agent) ProcessTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error) {
	start := time.Now()

	chatModel, err := a.newToolCallingChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	toolModel, err := chatModel.WithTools(taskToolInfos())
	if err != nil {
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	messages := buildMessages(req.History, req.Message)

	resp, err := toolModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("model generation failed: %w", err)
	}

	toolCalls := make([]ToolRequest, 0, len(resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		toolCalls = append(toolCalls, ToolRequest{
			Tool:      call.Function.Name,
			Arguments: decodeArguments(call.Function.Arguments),
		})
	}

	return &TurnResponse{
		Response:     resp.Content,
		ToolCalls:    toolCalls,
		ResponseTime: time.Since(start).Seconds(),
	}, nil
}

// buildMessages 构建模型输入消息
// 历史末尾已包含本回合用户消息时不再重复追加
func buildMessages(history []*model.Message, query string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))

	for _, msg := range history {
		var role schema.RoleType
		switch msg.Role {
		case model.RoleUser:
			role = schema.User
		case model.RoleAssistant:
			role = schema.Assistant
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}

	if n := len(history); n == 0 || history[n-1].Role != model.RoleUser || history[n-1].Content != query {
		messages = append(messages, schema.UserMessage(query))
	}

	return messages
}
