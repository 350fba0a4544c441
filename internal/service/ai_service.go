package service

import (
	"context"

	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/llm"
)

// AIService 答题提示、概念解释与提供方状态
type AIService struct {
	Registry  *llm.Registry
	Assistant *generation.Assistant
}

func NewAIService(registry *llm.Registry) *AIService {
	return &AIService{Registry: registry, Assistant: generation.NewAssistant(registry)}
}

type ProvidersInfo struct {
	Selected  string               `json:"selected"`
	Providers []llm.ProviderStatus `json:"providers"`
}

func (s *AIService) Hint(ctx context.Context, question, attempt string) (string, error) {
	return s.Assistant.Hint(ctx, question, attempt)
}

func (s *AIService) Explain(ctx context.Context, content string) (string, error) {
	return s.Assistant.Explain(ctx, content)
}

func (s *AIService) Providers() ProvidersInfo {
	return ProvidersInfo{Selected: s.Registry.Selected(), Providers: s.Registry.Available()}
}
