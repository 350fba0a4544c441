package generation

import (
	"context"
	"fmt"
	"strings"

	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/model"
)

// Feedback 学习者对上一版内容的反馈
type Feedback struct {
	Difficulty model.FeedbackDifficulty `json:"difficulty,omitempty"`
	Text       string                   `json:"feedbackText,omitempty"`
}

// IsEmpty 既没有难度评价也没有文字时视为空反馈
func (f *Feedback) IsEmpty() bool {
	return f == nil || (f.Difficulty == "" && strings.TrimSpace(f.Text) == "")
}

type Answer struct {
	StepID    string `json:"stepId"`
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"isCorrect"`
}

type LevelRequest struct {
	LevelTitle       string
	LevelDescription string
	ChapterTitle     string
	Material         string
	Difficulty       string
	Feedback         *Feedback
	PreviousAnswers  []Answer
	GenerateNext     bool
}

type levelPayload struct {
	Steps []model.LessonStep `json:"steps"`
}

type LevelGenerator struct {
	providers ProviderSource
}

func NewLevelGenerator(providers ProviderSource) *LevelGenerator {
	return &LevelGenerator{providers: providers}
}

// EffectiveDifficulty 根据反馈调整后的难度
func EffectiveDifficulty(difficulty string, feedback *Feedback) Difficulty {
	d := normalize(Difficulty(difficulty))
	if feedback == nil {
		return d
	}
	return AdjustDifficulty(d, feedback.Difficulty)
}

func (g *LevelGenerator) GenerateLevelContent(ctx context.Context, req LevelRequest) ([]model.LessonStep, error) {
	difficulty := EffectiveDifficulty(req.Difficulty, req.Feedback)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: levelSystemPrompt},
		{Role: llm.RoleUser, Content: buildLevelPrompt(req, difficulty)},
	}
	completion, err := g.providers.Provider().GenerateCompletion(ctx, messages, llm.Options{
		Temperature: 0.7,
		MaxTokens:   4000,
		Format:      llm.FormatJSON,
	})
	if err != nil {
		return nil, err
	}

	var payload levelPayload
	if err := llm.DecodeStructured(completion.Text, levelSchema, &payload); err != nil {
		return nil, err
	}
	if len(payload.Steps) == 0 {
		return nil, &llm.GenerationParseError{Raw: completion.Text, Err: fmt.Errorf("response contains no steps")}
	}

	return normalizeSteps(payload.Steps), nil
}

// normalizeSteps 补齐模型漏掉的 id 与类型
func normalizeSteps(steps []model.LessonStep) []model.LessonStep {
	for i := range steps {
		step := &steps[i]
		if strings.TrimSpace(step.ID) == "" {
			step.ID = fmt.Sprintf("step-%d", i+1)
		}
		if step.Type == "" {
			step.Type = model.StepInfo
		}
		for j := range step.Options {
			if strings.TrimSpace(step.Options[j].ID) == "" {
				step.Options[j].ID = fmt.Sprintf("opt-%d", j+1)
			}
		}
	}
	return steps
}
