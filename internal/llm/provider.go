package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role 对话消息的角色
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Format 期望的输出格式
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const (
	DefaultTemperature = 0.7
	// Anthropic 与星火的接口要求显式传 max_tokens
	DefaultMaxTokens = 4096
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options 单次补全请求的参数，Temperature 为 0 时使用 DefaultTemperature
type Options struct {
	Temperature float64
	MaxTokens   int
	Format      Format
}

type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Completion 归一化后的模型输出，Format 为 json 且提供方不支持原生结构化输出时，
// Text 已经过 ExtractJSON 处理
type Completion struct {
	Text  string
	Usage *Usage
}

// Provider 统一的文本补全接口
type Provider interface {
	Name() string
	// IsAvailable 当且仅当所需凭据齐全时返回 true
	IsAvailable() bool
	GenerateCompletion(ctx context.Context, messages []Message, opts Options) (*Completion, error)
}

var errNoMessages = errors.New("llm: messages must not be empty")

// validateMessages 检查消息列表非空且最多一条 system 消息
func validateMessages(messages []Message) error {
	if len(messages) == 0 {
		return errNoMessages
	}
	systems := 0
	for _, m := range messages {
		if m.Role == RoleSystem {
			systems++
		}
	}
	if systems > 1 {
		return fmt.Errorf("llm: at most one system message allowed, got %d", systems)
	}
	return nil
}

// splitSystem 拆出 system 消息，供不接受 system 角色的接口使用
func splitSystem(messages []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}

func (o Options) temperature() float64 {
	if o.Temperature <= 0 {
		return DefaultTemperature
	}
	return o.Temperature
}

func (o Options) maxTokensOr(def int) int {
	if o.MaxTokens <= 0 {
		return def
	}
	return o.MaxTokens
}
