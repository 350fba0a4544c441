package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"openlearner_backend/internal/config"

	"google.golang.org/genai"
)

// GeminiProvider Google Gemini，客户端在首次调用时创建，未配置 key 时不会触发网络访问
type GeminiProvider struct {
	cfg config.ProviderConfig

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiProvider(cfg config.ProviderConfig) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) IsAvailable() bool {
	return p.cfg.APIKey != ""
}

func (p *GeminiProvider) GenerateCompletion(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	if !p.IsAvailable() {
		return nil, &ConfigurationError{Provider: p.Name(), Missing: []string{"GEMINI_API_KEY"}}
	}

	p.once.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if p.initErr != nil {
		return nil, fmt.Errorf("create gemini client: %w", p.initErr)
	}

	system, rest := splitSystem(messages)
	temp := float32(opts.temperature())
	genCfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if opts.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if opts.Format == FormatJSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	result, err := p.client.Models.GenerateContent(ctx, p.cfg.Model, buildGeminiContents(rest), genCfg)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{Provider: p.Name(), StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
		}
		return nil, &UpstreamError{Provider: p.Name(), Body: err.Error(), Err: err}
	}

	completion := &Completion{Text: result.Text()}
	if result.UsageMetadata != nil {
		completion.Usage = &Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return completion, nil
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		out[i] = &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}}
	}
	return out
}
