package agent

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// repairJSON 修复模型生成的 JSON 参数字符串
// 策略：先尝试快速路径（有效 JSON 直接返回），再尝试修复
func repairJSON(input string) string {
	s := strings.TrimSpace(input)

	// 快速路径：已经是有效的 JSON 对象
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && json.Valid([]byte(s)) {
		return s
	}

	// 尝试提取 JSON 对象区域
	i := strings.IndexByte(s, '{')
	j := strings.LastIndexByte(s, '}')
	if i >= 0 && j >= i {
		sub := s[i : j+1]
		if json.Valid([]byte(sub)) {
			return sub
		}
		s = sub
	}

	// 移除常见的模型生成伪影
	s = strings.TrimPrefix(s, "<|FunctionCallBegin|>")
	s = strings.TrimSuffix(s, "<|FunctionCallEnd|>")
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	if json.Valid([]byte(s)) {
		return s
	}

	// 启发式：补全缺失的大括号
	if !strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = "{" + s
	} else if strings.HasPrefix(s, "{") && !strings.HasSuffix(s, "}") {
		s = s + "}"
	}

	// 使用 jsonrepair 进行强力修复
	out, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return s // 修复失败，返回原值
	}
	return out
}

// decodeArguments 将工具调用参数解析为 map
// 解析失败时返回空 map，保证调用意图不丢失
func decodeArguments(raw string) map[string]interface{} {
	args := make(map[string]interface{})
	if strings.TrimSpace(raw) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(repairJSON(raw)), &args); err != nil {
		return map[string]interface{}{}
	}
	return args
}
