package llm

import (
	"context"
	"time"

	"openlearner_backend/pkg/logger"
	"openlearner_backend/pkg/monitoring"
	"openlearner_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// instrumentedProvider 为每次调用记录日志、Prometheus 指标与追踪 span
type instrumentedProvider struct {
	inner Provider
}

// Instrument 包装 Provider，已包装过的直接返回
func Instrument(p Provider) Provider {
	if _, ok := p.(*instrumentedProvider); ok {
		return p
	}
	return &instrumentedProvider{inner: p}
}

func (p *instrumentedProvider) Name() string {
	return p.inner.Name()
}

func (p *instrumentedProvider) IsAvailable() bool {
	return p.inner.IsAvailable()
}

func (p *instrumentedProvider) GenerateCompletion(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	ctx, span := tracing.Tracer.Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", p.inner.Name()),
		attribute.String("llm.format", string(opts.Format)),
		attribute.Int("llm.max_tokens", opts.MaxTokens),
	)

	start := time.Now()
	completion, err := p.inner.GenerateCompletion(ctx, messages, opts)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	monitoring.LLMRequestCounter.WithLabelValues(p.inner.Name(), status).Inc()
	monitoring.LLMRequestDuration.WithLabelValues(p.inner.Name()).Observe(elapsed.Seconds())

	fields := []zap.Field{
		zap.String("provider", p.inner.Name()),
		zap.Duration("latency", elapsed),
		zap.Int("messages", len(messages)),
	}
	if err != nil {
		logger.Log.Warn("LLM request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	if completion.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", completion.Usage.TotalTokens))
	}
	logger.Log.Debug("LLM request completed", fields...)
	return completion, nil
}
