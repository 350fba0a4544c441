package llm

import (
	"sort"
	"strings"
	"sync"

	"openlearner_backend/internal/config"
	"openlearner_backend/pkg/logger"

	"go.uber.org/zap"
)

const defaultProvider = "openai"

var providerAliases = map[string]string{
	"openai":       "openai",
	"anthropic":    "anthropic",
	"claude":       "anthropic",
	"azure":        "azure",
	"azure-openai": "azure",
	"spark":        "spark",
	"xunfei":       "spark",
	"xfyun":        "spark",
	"generic":      "generic",
	"custom":       "generic",
	"gemini":       "gemini",
	"google":       "gemini",
	"mock":         "mock",
}

// ResolveProviderName 把配置值映射为规范名称，未知值回落到 openai
func ResolveProviderName(value string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if name, ok := providerAliases[key]; ok {
		return name, true
	}
	return defaultProvider, false
}

type ProviderStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

// Registry 启动时构建一次，持有全部提供方实例，进程生命周期内选择结果不变
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	selected  string
}

type RegistryOption func(*Registry)

// WithProvider 替换或新增某个提供方，测试中用来注入 MockProvider
func WithProvider(name string, p Provider) RegistryOption {
	return func(r *Registry) {
		r.providers[name] = Instrument(p)
	}
}

func NewRegistry(cfg config.AIConfig, opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: map[string]Provider{
			"openai":    Instrument(NewOpenAIProvider(cfg.OpenAI)),
			"anthropic": Instrument(NewAnthropicProvider(cfg.Anthropic)),
			"azure":     Instrument(NewAzureProvider(cfg.Azure)),
			"spark":     Instrument(NewSparkProvider(cfg.Spark)),
			"generic":   Instrument(NewGenericProvider(cfg.Generic)),
			"gemini":    Instrument(NewGeminiProvider(cfg.Gemini)),
			"mock":      Instrument(NewMockProvider()),
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	name, known := ResolveProviderName(cfg.Provider)
	if !known {
		logger.Log.Warn("Unknown AI provider, falling back to default",
			zap.String("configured", cfg.Provider), zap.String("provider", name))
	}
	r.selected = name
	return r
}

// Provider 返回当前选中的提供方
func (r *Registry) Provider() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[r.selected]
}

func (r *Registry) Selected() string {
	return r.selected
}

// Get 按规范名称或别名取提供方
func (r *Registry) Get(name string) (Provider, bool) {
	canonical, known := ResolveProviderName(name)
	if !known {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[canonical]
	return p, ok
}

// Available 列出全部提供方的可用状态，按名称排序
func (r *Registry) Available() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderStatus, 0, len(r.providers))
	for name, p := range r.providers {
		out = append(out, ProviderStatus{
			Name:      name,
			Available: p.IsAvailable(),
			Selected:  name == r.selected,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
