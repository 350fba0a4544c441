package generation

import (
	"context"
	"strings"
	"testing"

	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleMaterial = strings.Repeat("Photosynthesis converts light into chemical energy. ", 3)

const outlineReply = `{
  "title": "Plant Energy",
  "description": "How plants make food",
  "icon": "🌱",
  "chapters": [
    {"title": "Light", "description": "Capturing light"},
    {"title": "Sugar", "description": "Building glucose"},
    {"title": "Use", "description": "Spending energy"}
  ],
  "levels": [
    {"title": "Chlorophyll", "description": "d1", "order": 1, "chapterIndex": 0, "xpReward": 60},
    {"title": "Photons", "description": "d2", "order": 2, "chapterIndex": "1", "xpReward": "70"},
    {"title": "Lost", "description": "d3", "order": 3, "chapterIndex": 9}
  ]
}`

func TestValidateMaterial_Boundary(t *testing.T) {
	_, err := ValidateMaterial(strings.Repeat("a", 49))
	var vErr *util.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Material must be at least 50 characters long", vErr.Message)

	got, err := ValidateMaterial("  " + strings.Repeat("a", 50) + "  ")
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestGenerateCourseOutline(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Text: outlineReply})
	gen := NewOutlineGenerator(Static(mock))

	outline, err := gen.GenerateCourseOutline(context.Background(), OutlineRequest{
		Material:   sampleMaterial,
		Difficulty: "beginner",
	})
	require.NoError(t, err)

	assert.Equal(t, "Plant Energy", outline.Title)
	assert.Equal(t, Beginner, outline.Difficulty)
	require.Len(t, outline.Chapters, 3)
	require.Len(t, outline.Levels, 3)
	assert.EqualValues(t, 1, outline.Levels[1].ChapterIndex)
	assert.EqualValues(t, 70, outline.Levels[1].XPReward)
	assert.EqualValues(t, 0, outline.Levels[2].ChapterIndex, "out of range index falls back to the first chapter")
	assert.EqualValues(t, 50, outline.Levels[2].XPReward)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, llm.FormatJSON, call.Options.Format)
	assert.Equal(t, 2000, call.Options.MaxTokens)
	assert.Equal(t, llm.RoleSystem, call.Messages[0].Role)
	assert.Contains(t, call.Messages[1].Content, "beginner")
}

func TestGenerateCourseOutline_TruncatesMaterialInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Text: outlineReply})
	gen := NewOutlineGenerator(Static(mock))

	long := strings.Repeat("x", MaxPromptMaterial) + "TAIL-MARKER"
	_, err := gen.GenerateCourseOutline(context.Background(), OutlineRequest{Material: long})
	require.NoError(t, err)
	assert.NotContains(t, mock.Calls[0].Messages[1].Content, "TAIL-MARKER")
}

func TestGenerateCourseOutline_Defaults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Text: "Sure! ```json\n{\"levels\":[{\"title\":\"\"},],}\n```"})
	gen := NewOutlineGenerator(Static(mock))

	outline, err := gen.GenerateCourseOutline(context.Background(), OutlineRequest{
		Material: sampleMaterial,
		Title:    "My Notes",
	})
	require.NoError(t, err)
	assert.Equal(t, "My Notes", outline.Title)
	assert.Equal(t, DefaultCourseDescription, outline.Description)
	assert.Equal(t, DefaultCourseIcon, outline.Icon)
	assert.Equal(t, Intermediate, outline.Difficulty)
	require.Len(t, outline.Chapters, 1)
	assert.Equal(t, "Level 1", outline.Levels[0].Title)
	assert.EqualValues(t, 1, outline.Levels[0].Order)
	assert.EqualValues(t, 80, outline.Levels[0].XPReward)
}

func TestGenerateCourseOutline_TrimsExtraChapters(t *testing.T) {
	reply := `{"chapters":[{"title":"1"},{"title":"2"},{"title":"3"},{"title":"4"},{"title":"5"},{"title":"6"}],
"levels":[{"title":"a","chapterIndex":5}]}`
	gen := NewOutlineGenerator(Static(llm.NewMockProvider(llm.MockReply{Text: reply})))

	outline, err := gen.GenerateCourseOutline(context.Background(), OutlineRequest{Material: sampleMaterial})
	require.NoError(t, err)
	assert.Len(t, outline.Chapters, MaxChapters)
	assert.EqualValues(t, 0, outline.Levels[0].ChapterIndex)
}

func TestGenerateCourseOutline_Errors(t *testing.T) {
	t.Run("short material never reaches the provider", func(t *testing.T) {
		mock := llm.NewMockProvider()
		_, err := NewOutlineGenerator(Static(mock)).GenerateCourseOutline(context.Background(),
			OutlineRequest{Material: "too short"})
		var vErr *util.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Zero(t, mock.CallCount())
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		_, err := NewOutlineGenerator(Static(llm.NewMockProvider())).GenerateCourseOutline(context.Background(),
			OutlineRequest{Material: sampleMaterial, Difficulty: "expert"})
		var vErr *util.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("unparseable reply", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockReply{Text: "I cannot help with that"})
		_, err := NewOutlineGenerator(Static(mock)).GenerateCourseOutline(context.Background(),
			OutlineRequest{Material: sampleMaterial})
		var pErr *llm.GenerationParseError
		require.ErrorAs(t, err, &pErr)
		assert.Equal(t, "I cannot help with that", pErr.Raw)
	})

	t.Run("no levels", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockReply{Text: `{"title":"x","levels":[]}`})
		_, err := NewOutlineGenerator(Static(mock)).GenerateCourseOutline(context.Background(),
			OutlineRequest{Material: sampleMaterial})
		var pErr *llm.GenerationParseError
		assert.ErrorAs(t, err, &pErr)
	})

	t.Run("provider not configured", func(t *testing.T) {
		mock := llm.NewMockProvider()
		mock.SetAvailable(false)
		_, err := NewOutlineGenerator(Static(mock)).GenerateCourseOutline(context.Background(),
			OutlineRequest{Material: sampleMaterial})
		var cErr *llm.ConfigurationError
		assert.ErrorAs(t, err, &cErr)
	})
}
