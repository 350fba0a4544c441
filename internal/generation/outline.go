package generation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/util"
)

const (
	MinMaterialLength = 50
	// 只把资料前 2000 个字符发给模型，完整资料另行保存
	MaxPromptMaterial = 2000
	MaxChapters       = 5

	DefaultCourseTitle       = "Untitled Course"
	DefaultCourseDescription = "A personalized course generated by AI"
	DefaultCourseIcon        = "📚"
)

type OutlineRequest struct {
	Material   string
	Title      string
	Difficulty string
}

type OutlineChapter struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type OutlineLevel struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Order        FlexInt `json:"order"`
	ChapterIndex FlexInt `json:"chapterIndex"`
	XPReward     FlexInt `json:"xpReward"`
}

// CourseOutline 课程骨架，只有章节与关卡标题，不含关卡内容
type CourseOutline struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Difficulty  Difficulty       `json:"difficulty"`
	Chapters    []OutlineChapter `json:"chapters"`
	Levels      []OutlineLevel   `json:"levels"`
}

type OutlineGenerator struct {
	providers ProviderSource
}

func NewOutlineGenerator(providers ProviderSource) *OutlineGenerator {
	return &OutlineGenerator{providers: providers}
}

// ValidateMaterial 去掉首尾空白后至少 50 个字符
func ValidateMaterial(material string) (string, error) {
	trimmed := strings.TrimSpace(material)
	if utf8.RuneCountInString(trimmed) < MinMaterialLength {
		return "", util.NewValidationError("material",
			fmt.Sprintf("Material must be at least %d characters long", MinMaterialLength))
	}
	return trimmed, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// ResolveChapterIndex 越界时回落到第一章
func ResolveChapterIndex(index, chapters int) int {
	if index < 0 || index >= chapters {
		return 0
	}
	return index
}

func (g *OutlineGenerator) GenerateCourseOutline(ctx context.Context, req OutlineRequest) (*CourseOutline, error) {
	material, err := ValidateMaterial(req.Material)
	if err != nil {
		return nil, err
	}
	difficulty, err := ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: outlineSystemPrompt},
		{Role: llm.RoleUser, Content: buildOutlinePrompt(truncateRunes(material, MaxPromptMaterial), title, difficulty)},
	}
	completion, err := g.providers.Provider().GenerateCompletion(ctx, messages, llm.Options{
		Temperature: 0.7,
		MaxTokens:   2000,
		Format:      llm.FormatJSON,
	})
	if err != nil {
		return nil, err
	}

	var outline CourseOutline
	if err := llm.DecodeStructured(completion.Text, outlineSchema, &outline); err != nil {
		return nil, err
	}
	if len(outline.Levels) == 0 {
		return nil, &llm.GenerationParseError{Raw: completion.Text, Err: fmt.Errorf("outline contains no levels")}
	}

	outline.Difficulty = difficulty
	applyOutlineDefaults(&outline, title)
	return &outline, nil
}

func applyOutlineDefaults(o *CourseOutline, requestedTitle string) {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		o.Title = requestedTitle
	}
	if o.Title == "" {
		o.Title = DefaultCourseTitle
	}
	if strings.TrimSpace(o.Description) == "" {
		o.Description = DefaultCourseDescription
	}
	if strings.TrimSpace(o.Icon) == "" {
		o.Icon = DefaultCourseIcon
	}

	if len(o.Chapters) > MaxChapters {
		o.Chapters = o.Chapters[:MaxChapters]
	}
	if len(o.Chapters) == 0 {
		o.Chapters = []OutlineChapter{{Title: o.Title, Description: o.Description}}
	}
	for i := range o.Chapters {
		if strings.TrimSpace(o.Chapters[i].Title) == "" {
			o.Chapters[i].Title = fmt.Sprintf("Chapter %d", i+1)
		}
	}

	minXP, _ := xpRange(o.Difficulty)
	for i := range o.Levels {
		lv := &o.Levels[i]
		if strings.TrimSpace(lv.Title) == "" {
			lv.Title = fmt.Sprintf("Level %d", i+1)
		}
		if lv.Order <= 0 {
			lv.Order = FlexInt(i + 1)
		}
		if lv.XPReward <= 0 {
			lv.XPReward = FlexInt(minXP)
		}
		lv.ChapterIndex = FlexInt(ResolveChapterIndex(int(lv.ChapterIndex), len(o.Chapters)))
	}
}
