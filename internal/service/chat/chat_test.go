// Package chat 对话编排单元测试
package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/linzhiyi/taskpilot/internal/errs"
	"github.com/linzhiyi/taskpilot/internal/model"
	"github.com/linzhiyi/taskpilot/internal/service/agent"
	"github.com/linzhiyi/taskpilot/internal/service/tool"
)

// fakeStore 记录操作顺序的对话存储
type fakeStore struct {
	conversations map[string]*model.Conversation
	messages      map[string][]*model.Message
	ops           []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: make(map[string]*model.Conversation),
		messages:      make(map[string][]*model.Message),
	}
}

func (s *fakeStore) GetOrCreate(ctx context.Context, ownerID, conversationID string) (*model.Conversation, error) {
	s.ops = append(s.ops, "get_or_create")
	if conversationID != "" {
		conv, ok := s.conversations[conversationID]
		if !ok || conv.OwnerID != ownerID {
			return nil, errs.NotFoundf("conversation %s", conversationID)
		}
		return conv, nil
	}
	conv := &model.Conversation{
		ID:      fmt.Sprintf("conv-%d", len(s.conversations)+1),
		OwnerID: ownerID,
	}
	s.conversations[conv.ID] = conv
	return conv, nil
}

func (s *fakeStore) AppendMessage(ctx context.Context, conversationID, role, content string) (*model.Message, error) {
	s.ops = append(s.ops, "append:"+role)
	msg := &model.Message{
		ID:             fmt.Sprintf("msg-%d", len(s.messages[conversationID])+1),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return msg, nil
}

func (s *fakeStore) History(ctx context.Context, conversationID string, limit int) ([]*model.Message, error) {
	s.ops = append(s.ops, "history")
	msgs := s.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// fakeExecutor 记录调用并返回预设结果
type fakeExecutor struct {
	results map[string]tool.Result
	calls   []string
}

func (e *fakeExecutor) Dispatch(ctx context.Context, ownerID, name string, args map[string]interface{}) tool.Result {
	e.calls = append(e.calls, name)
	if result, ok := e.results[name]; ok {
		return result
	}
	return tool.Result{"success": false, "error": "unknown_tool", "message": "Unknown tool: " + name}
}

// fakeProcessor 返回预设的回合响应
type fakeProcessor struct {
	response    *agent.TurnResponse
	err         error
	lastRequest *agent.TurnRequest
}

func (p *fakeProcessor) ProcessTurn(ctx context.Context, req *agent.TurnRequest) (*agent.TurnResponse, error) {
	p.lastRequest = req
	return p.response, p.err
}

// ========== ProcessTurn 测试 ==========

func TestService_ProcessTurn_EmptyMessage(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeExecutor{}, &fakeProcessor{}, 20, nil)

	_, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID: "user-1",
		Message: "   ",
	})

	if !errs.IsInvalidMessage(err) {
		t.Errorf("ProcessTurn() error = %v, want invalid message", err)
	}
	if len(store.ops) != 0 {
		t.Errorf("empty message must not touch the store, ops = %v", store.ops)
	}
}

func TestService_ProcessTurn_FullTurn(t *testing.T) {
	store := newFakeStore()
	executor := &fakeExecutor{
		results: map[string]tool.Result{
			"add_task": {"success": true, "task_id": "task-1", "message": "Task 'Buy milk' added successfully"},
		},
	}
	processor := &fakeProcessor{
		response: &agent.TurnResponse{
			Response: "I've added the task!",
			ToolCalls: []agent.ToolRequest{
				{Tool: "add_task", Arguments: map[string]interface{}{"title": "Buy milk"}},
			},
		},
	}
	svc := NewService(store, executor, processor, 20, nil)

	result, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID: "user-1",
		Message: "Add a task to buy milk",
	})

	if err != nil {
		t.Fatalf("ProcessTurn() unexpected error: %v", err)
	}
	if result.ConversationID == "" {
		t.Error("result should carry the conversation ID")
	}
	if result.Response != "I've added the task!" {
		t.Errorf("Response = %q", result.Response)
	}
	if len(result.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %d, want 1", len(result.ToolCalls))
	}
	if result.ToolCalls[0].Tool != "add_task" {
		t.Errorf("Tool = %q, want 'add_task'", result.ToolCalls[0].Tool)
	}
	if result.ToolCalls[0].Result["success"] != true {
		t.Errorf("tool result = %v, want success", result.ToolCalls[0].Result)
	}
	if result.ResponseTime < 0 {
		t.Error("ResponseTime should be non-negative")
	}

	// 用户消息先落库，再取历史，最后落助手消息
	wantOps := []string{"get_or_create", "append:user", "history", "append:assistant"}
	if len(store.ops) != len(wantOps) {
		t.Fatalf("ops = %v, want %v", store.ops, wantOps)
	}
	for i, op := range wantOps {
		if store.ops[i] != op {
			t.Errorf("ops[%d] = %q, want %q", i, store.ops[i], op)
		}
	}

	// 代理收到的历史应包含本回合用户消息
	history := processor.lastRequest.History
	if len(history) == 0 || history[len(history)-1].Content != "Add a task to buy milk" {
		t.Error("history passed to the agent should end with the in-flight user message")
	}
}

func TestService_ProcessTurn_EmptyResponseNotPersisted(t *testing.T) {
	store := newFakeStore()
	processor := &fakeProcessor{
		response: &agent.TurnResponse{Response: ""},
	}
	svc := NewService(store, &fakeExecutor{}, processor, 20, nil)

	result, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID: "user-1",
		Message: "hello",
	})

	if err != nil {
		t.Fatalf("ProcessTurn() unexpected error: %v", err)
	}
	if result.Response != "" {
		t.Errorf("Response = %q, want empty", result.Response)
	}
	for _, op := range store.ops {
		if op == "append:assistant" {
			t.Error("empty assistant response must not be persisted")
		}
	}
}

func TestService_ProcessTurn_MultipleToolCalls(t *testing.T) {
	store := newFakeStore()
	executor := &fakeExecutor{
		results: map[string]tool.Result{
			"add_task": {"success": true, "message": "Task 'One' added successfully"},
		},
	}
	processor := &fakeProcessor{
		response: &agent.TurnResponse{
			Response: "Done what I could.",
			ToolCalls: []agent.ToolRequest{
				{Tool: "add_task", Arguments: map[string]interface{}{"title": "One"}},
				{Tool: "send_email", Arguments: map[string]interface{}{}},
			},
		},
	}
	svc := NewService(store, executor, processor, 20, nil)

	result, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID: "user-1",
		Message: "do things",
	})

	if err != nil {
		t.Fatalf("ProcessTurn() unexpected error: %v", err)
	}
	// 单个工具失败不影响其余调用与回合结果
	if len(result.ToolCalls) != 2 {
		t.Fatalf("ToolCalls = %d, want 2", len(result.ToolCalls))
	}
	if result.ToolCalls[0].Result["success"] != true {
		t.Error("first tool call should succeed")
	}
	if result.ToolCalls[1].Result["error"] != "unknown_tool" {
		t.Errorf("second tool call result = %v, want unknown_tool failure", result.ToolCalls[1].Result)
	}
}

func TestService_ProcessTurn_ExistingConversationWrongOwner(t *testing.T) {
	store := newFakeStore()
	conv, _ := store.GetOrCreate(context.Background(), "user-1", "")
	store.ops = nil

	svc := NewService(store, &fakeExecutor{}, &fakeProcessor{}, 20, nil)

	_, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID:        "user-2",
		ConversationID: conv.ID,
		Message:        "hello",
	})

	if !errs.IsNotFound(err) {
		t.Errorf("ProcessTurn() error = %v, want not found", err)
	}
}

// ========== 回合日志测试 ==========

func TestService_ProcessTurn_UnclassifiedFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := newFakeStore()
	processor := &fakeProcessor{err: errors.New(`pq: password authentication failed for user "postgres"`)}
	svc := NewService(store, &fakeExecutor{}, processor, 20, zap.New(core))

	_, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID: "user-1",
		Message: "hello",
	})

	if err == nil {
		t.Fatal("ProcessTurn() should surface the agent failure")
	}

	entries := logs.FilterMessage("chat turn failed").All()
	if len(entries) != 1 {
		t.Fatalf("error log entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["user_id"] != "user-1" {
		t.Errorf("user_id = %v, want 'user-1'", fields["user_id"])
	}
	if fields["conversation_id"] == "" {
		t.Error("error log should carry the conversation id")
	}
}

func TestService_ProcessTurn_DomainErrorNotLoggedAsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := newFakeStore()
	conv, _ := store.GetOrCreate(context.Background(), "user-1", "")

	svc := NewService(store, &fakeExecutor{}, &fakeProcessor{}, 20, zap.New(core))

	_, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID:        "user-2",
		ConversationID: conv.ID,
		Message:        "hello",
	})

	if !errs.IsNotFound(err) {
		t.Fatalf("ProcessTurn() error = %v, want not found", err)
	}
	// 领域错误是预期结果，不产生错误级日志
	if n := logs.FilterMessage("chat turn failed").Len(); n != 0 {
		t.Errorf("error log entries = %d, want 0 for a domain error", n)
	}
}

func TestService_ProcessTurn_InboundLoggedBeforeResolution(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := newFakeStore()
	conv, _ := store.GetOrCreate(context.Background(), "user-1", "")

	svc := NewService(store, &fakeExecutor{}, &fakeProcessor{}, 20, zap.New(core))

	_, err := svc.ProcessTurn(context.Background(), &TurnInput{
		OwnerID:        "user-2",
		ConversationID: conv.ID,
		Message:        "hello",
	})

	if !errs.IsNotFound(err) {
		t.Fatalf("ProcessTurn() error = %v, want not found", err)
	}

	// 会话解析失败的回合也要有入站事件
	entries := logs.FilterMessage("chat turn received").All()
	if len(entries) != 1 {
		t.Fatalf("inbound log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["user_id"] != "user-2" {
		t.Errorf("user_id = %v, want 'user-2'", fields["user_id"])
	}
	if fields["conversation_id"] != conv.ID {
		t.Errorf("conversation_id = %v, want %q", fields["conversation_id"], conv.ID)
	}
}
