package generation

import (
	"context"
	"strings"

	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/util"
)

const (
	HintUnavailable        = "The AI assistant is temporarily unavailable. Re-read the lesson card and try again."
	ExplanationUnavailable = "The AI assistant is temporarily unavailable. Please try again later."
)

// Assistant 答题提示与概念解释
type Assistant struct {
	providers ProviderSource
}

func NewAssistant(providers ProviderSource) *Assistant {
	return &Assistant{providers: providers}
}

// Hint 提供方未配置时返回固定提示语而不是报错
func (a *Assistant) Hint(ctx context.Context, question, attempt string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", util.NewValidationError("question", "Missing question")
	}
	return a.ask(ctx, buildHintPrompt(question, attempt), 150, HintUnavailable)
}

func (a *Assistant) Explain(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", util.NewValidationError("content", "Missing content")
	}
	return a.ask(ctx, buildExplainPrompt(content), 500, ExplanationUnavailable)
}

func (a *Assistant) ask(ctx context.Context, prompt string, maxTokens int, fallback string) (string, error) {
	provider := a.providers.Provider()
	if !provider.IsAvailable() {
		return fallback, nil
	}

	completion, err := provider.GenerateCompletion(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: assistantSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.Options{Temperature: 0.7, MaxTokens: maxTokens, Format: llm.FormatText})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Text), nil
}
