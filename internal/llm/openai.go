package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"openlearner_backend/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider 基于 go-openai 的实现，OpenAI、Azure、星火以及任意 OpenAI 兼容接口共用
type OpenAIProvider struct {
	name    string
	client  *openai.Client
	model   string
	missing []string
	// 是否通过 response_format 请求 JSON，不支持时改为从文本中提取
	nativeJSON bool
	// 不为 0 时即使调用方未指定也发送 max_tokens
	defaultMaxTokens int
}

// NewOpenAIProvider 官方 OpenAI 接口
func NewOpenAIProvider(cfg config.ProviderConfig) *OpenAIProvider {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return newOpenAICompatible("openai", cfg, missing, true, 0)
}

// NewGenericProvider 自定义的 OpenAI 兼容接口，必须同时提供 key 与 base url
func NewGenericProvider(cfg config.ProviderConfig) *OpenAIProvider {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "GENERIC_API_KEY")
	}
	if cfg.BaseURL == "" {
		missing = append(missing, "GENERIC_BASE_URL")
	}
	return newOpenAICompatible("generic", cfg, missing, true, 0)
}

// NewSparkProvider 讯飞星火 MaaS，OpenAI 兼容协议但不支持 response_format
func NewSparkProvider(cfg config.ProviderConfig) *OpenAIProvider {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "SPARK_API_KEY")
	}
	return newOpenAICompatible("spark", cfg, missing, false, DefaultMaxTokens)
}

// NewAzureProvider Azure OpenAI，模型名即部署名
func NewAzureProvider(cfg config.AzureConfig) *OpenAIProvider {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if cfg.Endpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if cfg.Deployment == "" {
		missing = append(missing, "AZURE_OPENAI_DEPLOYMENT_NAME")
	}

	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, strings.TrimRight(cfg.Endpoint, "/"))
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}
	deployment := cfg.Deployment
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }

	return &OpenAIProvider{
		name:       "azure",
		client:     openai.NewClientWithConfig(clientCfg),
		model:      deployment,
		missing:    missing,
		nativeJSON: true,
	}
}

func newOpenAICompatible(name string, cfg config.ProviderConfig, missing []string, nativeJSON bool, maxTokens int) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &OpenAIProvider{
		name:             name,
		client:           openai.NewClientWithConfig(clientCfg),
		model:            cfg.Model,
		missing:          missing,
		nativeJSON:       nativeJSON,
		defaultMaxTokens: maxTokens,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) IsAvailable() bool {
	return len(p.missing) == 0
}

func (p *OpenAIProvider) GenerateCompletion(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	if !p.IsAvailable() {
		return nil, &ConfigurationError{Provider: p.name, Missing: p.missing}
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildOpenAIMessages(messages),
		Temperature: float32(opts.temperature()),
		MaxTokens:   opts.maxTokensOr(p.defaultMaxTokens),
	}
	if opts.Format == FormatJSON && p.nativeJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.mapError(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	if opts.Format == FormatJSON && !p.nativeJSON {
		text = ExtractJSON(text)
	}

	return &Completion{
		Text: text,
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out
}

func (p *OpenAIProvider) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(apiErr)
		return &UpstreamError{Provider: p.name, StatusCode: apiErr.HTTPStatusCode, Body: string(body), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Provider: p.name, StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error(), Err: err}
	}
	return &UpstreamError{Provider: p.name, Body: err.Error(), Err: err}
}
