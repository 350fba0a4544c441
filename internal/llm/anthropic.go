package llm

import (
	"context"
	"errors"
	"strings"

	"openlearner_backend/internal/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider Anthropic Messages 接口，system 消息单独传递
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
	apiKey string
}

func NewAnthropicProvider(cfg config.ProviderConfig) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		// SDK 自己拼接 /v1/messages
		base := strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v1")
		opts = append(opts, option.WithBaseURL(base))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{
		client: &client,
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) IsAvailable() bool {
	return p.apiKey != ""
}

func (p *AnthropicProvider) GenerateCompletion(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	if !p.IsAvailable() {
		return nil, &ConfigurationError{Provider: p.Name(), Missing: []string{"ANTHROPIC_API_KEY"}}
	}

	system, rest := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(opts.maxTokensOr(DefaultMaxTokens)),
		Messages:    buildAnthropicMessages(rest),
		Temperature: anthropic.Float(opts.temperature()),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.Join(parts, "")
	if opts.Format == FormatJSON {
		text = ExtractJSON(text)
	}

	return &Completion{
		Text: text,
		Usage: &Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

func buildAnthropicMessages(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, len(msgs))
	for i, m := range msgs {
		if m.Role == RoleAssistant {
			out[i] = anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content))
			continue
		}
		out[i] = anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content))
	}
	return out
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		body := apiErr.RawJSON()
		if body == "" {
			body = err.Error()
		}
		return &UpstreamError{Provider: "anthropic", StatusCode: apiErr.StatusCode, Body: body, Err: err}
	}
	return &UpstreamError{Provider: "anthropic", Body: err.Error(), Err: err}
}
