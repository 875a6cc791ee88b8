// Package agent JSON 修复单元测试
package agent

import (
	"encoding/json"
	"testing"
)

// ========== repairJSON 测试 ==========

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]interface{}
	}{
		{
			name:  "valid json passthrough",
			input: `{"title": "Buy milk"}`,
			want:  map[string]interface{}{"title": "Buy milk"},
		},
		{
			name:  "markdown code fence",
			input: "```json\n{\"title\": \"Buy milk\"}\n```",
			want:  map[string]interface{}{"title": "Buy milk"},
		},
		{
			name:  "surrounding prose",
			input: `Here are the arguments: {"task_id": "t1"} hope that helps`,
			want:  map[string]interface{}{"task_id": "t1"},
		},
		{
			name:  "function call artifacts",
			input: `<|FunctionCallBegin|>{"task_id": "t1"}<|FunctionCallEnd|>`,
			want:  map[string]interface{}{"task_id": "t1"},
		},
		{
			name:  "missing closing brace",
			input: `{"title": "Buy milk"`,
			want:  map[string]interface{}{"title": "Buy milk"},
		},
		{
			name:  "single quotes repaired",
			input: `{'title': 'Buy milk'}`,
			want:  map[string]interface{}{"title": "Buy milk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)

			var parsed map[string]interface{}
			if err := json.Unmarshal([]byte(got), &parsed); err != nil {
				t.Fatalf("repairJSON(%q) = %q, not valid JSON: %v", tt.input, got, err)
			}
			for key, want := range tt.want {
				if parsed[key] != want {
					t.Errorf("parsed[%q] = %v, want %v", key, parsed[key], want)
				}
			}
		})
	}
}

// ========== decodeArguments 测试 ==========

func TestDecodeArguments(t *testing.T) {
	args := decodeArguments(`{"title": "Buy milk", "limit": 5}`)

	if args["title"] != "Buy milk" {
		t.Errorf("title = %v, want 'Buy milk'", args["title"])
	}
	if args["limit"] != float64(5) {
		t.Errorf("limit = %v, want float64(5)", args["limit"])
	}
}

func TestDecodeArguments_Empty(t *testing.T) {
	args := decodeArguments("   ")

	if args == nil {
		t.Fatal("decodeArguments() should never return nil")
	}
	if len(args) != 0 {
		t.Errorf("decodeArguments() = %v, want empty map", args)
	}
}

func TestDecodeArguments_Unrepairable(t *testing.T) {
	args := decodeArguments("[1, 2, 3]")

	if args == nil {
		t.Fatal("decodeArguments() should never return nil")
	}
	if len(args) != 0 {
		t.Errorf("non-object input should decode to empty map, got %v", args)
	}
}
