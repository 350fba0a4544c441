package llm

import (
	"fmt"
	"strings"
)

// ConfigurationError 所选提供方缺少凭据或必要配置，在发起请求前返回
type ConfigurationError struct {
	Provider string
	Missing  []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s provider is not configured: missing %s", e.Provider, strings.Join(e.Missing, ", "))
}

// UpstreamError 上游返回非成功状态或网络失败，Body 保留原始错误内容便于排查
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// GenerationParseError 模型输出在修复一次后仍无法解析为 JSON
type GenerationParseError struct {
	Raw string
	Err error
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *GenerationParseError) Unwrap() error {
	return e.Err
}
