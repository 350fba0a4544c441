package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepsV1 = `{"steps":[{"id":"step-1","type":"info","content":"v1"},{"id":"step-2","type":"multiple_choice","content":"q","question":"?","options":[{"id":"a","text":"x","isCorrect":true}]}]}`
const stepsV2 = `{"steps":[{"id":"step-1","type":"info","content":"v2"}]}`

func newLevelService(t *testing.T, replies ...llm.MockReply) (*LevelContentService, *llm.MockProvider, *repository.MemoryStore) {
	t.Helper()
	mock := llm.NewMockProvider(replies...)
	store := repository.NewMemoryStore()
	svc := NewLevelContentService(store, generation.NewLevelGenerator(generation.Static(mock)))
	return svc, mock, store
}

func TestGetLevelContent_CachesFirstVisit(t *testing.T) {
	svc, mock, _ := newLevelService(t, llm.MockReply{Text: stepsV1})
	ctx := context.Background()
	req := LevelContentRequest{CourseID: "c1", LevelID: "l1", LevelTitle: "Cells"}

	first, err := svc.GetLevelContent(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Len(t, first.Steps, 2)

	second, err := svc.GetLevelContent(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, 1, mock.CallCount(), "second visit is served from cache")
}

func TestGetLevelContent_BypassTriggers(t *testing.T) {
	cases := map[string]LevelContentRequest{
		"generateNext":    {GenerateNext: true},
		"feedback text":   {Feedback: &generation.Feedback{Text: "more examples please"}},
		"feedback rating": {Feedback: &generation.Feedback{Difficulty: model.TooEasy}},
		"previousAnswers": {PreviousAnswers: []generation.Answer{{StepID: "step-2", Answer: "b"}}},
	}
	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			svc, mock, store := newLevelService(t, llm.MockReply{Text: stepsV2})
			ctx := context.Background()
			require.NoError(t, store.SaveLevelContent(ctx, "l1", []model.LessonStep{{ID: "step-1", Content: "old"}}))

			req := override
			req.CourseID, req.LevelID, req.LevelTitle = "c1", "l1", "Cells"
			res, err := svc.GetLevelContent(ctx, req)
			require.NoError(t, err)
			assert.False(t, res.Cached)
			assert.Equal(t, "v2", res.Steps[0].Content)
			assert.Equal(t, 1, mock.CallCount())

			cached, _, err := store.GetLevelContent(ctx, "l1")
			require.NoError(t, err)
			assert.Equal(t, "v2", cached.Steps[0].Content, "bypassed generations overwrite the cache")
		})
	}
}

func TestGetLevelContent_EmptyFeedbackDoesNotBypass(t *testing.T) {
	assert.False(t, ShouldBypassCache(LevelContentRequest{Feedback: &generation.Feedback{}}))
	assert.False(t, ShouldBypassCache(LevelContentRequest{PreviousAnswers: []generation.Answer{}}))
}

func TestGetLevelContent_NoLevelIDSkipsCache(t *testing.T) {
	svc, mock, _ := newLevelService(t, llm.MockReply{Text: stepsV1}, llm.MockReply{Text: stepsV2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := svc.GetLevelContent(ctx, LevelContentRequest{LevelTitle: "Loose"})
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}
	assert.Equal(t, 2, mock.CallCount())
}

func TestGetLevelContent_ExpiredEntryRegenerates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Text: stepsV2})
	store := repository.NewMemoryStore()
	svc := NewLevelContentService(store, generation.NewLevelGenerator(generation.Static(mock)), WithCacheTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.SaveLevelContent(ctx, "l1", []model.LessonStep{{ID: "step-1", Content: "old"}}))
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	res, err := svc.GetLevelContent(ctx, LevelContentRequest{LevelID: "l1", LevelTitle: "Cells"})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, "v2", res.Steps[0].Content)
}

func TestGetLevelContent_MissingTitle(t *testing.T) {
	svc, mock, _ := newLevelService(t)
	_, err := svc.GetLevelContent(context.Background(), LevelContentRequest{LevelID: "l1"})
	var vErr *util.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Missing level title", vErr.Message)
	assert.Zero(t, mock.CallCount())
}

func TestGetLevelContent_FailureLeavesCacheEmpty(t *testing.T) {
	svc, _, store := newLevelService(t, llm.MockReply{Text: "not json at all"})
	ctx := context.Background()

	_, err := svc.GetLevelContent(ctx, LevelContentRequest{LevelID: "l1", LevelTitle: "Cells"})
	var pErr *llm.GenerationParseError
	require.ErrorAs(t, err, &pErr)

	_, found, err := store.GetLevelContent(ctx, "l1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveMaterial_Order(t *testing.T) {
	svc, _, store := newLevelService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveCourseMaterial(ctx, "c1", "stored notes"))

	got, err := svc.ResolveMaterial(ctx, LevelContentRequest{CourseID: "c1", Material: "supplied notes"})
	require.NoError(t, err)
	assert.Equal(t, "supplied notes", got)

	got, err = svc.ResolveMaterial(ctx, LevelContentRequest{CourseID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "stored notes", got)

	got, err = svc.ResolveMaterial(ctx, LevelContentRequest{CourseID: "c2", LevelTitle: "Mitosis", LevelDescription: "Cell division"})
	require.NoError(t, err)
	assert.Equal(t, "Course: c2\nLevel: Mitosis\nDescription: Cell division", got)

	got, err = svc.ResolveMaterial(ctx, LevelContentRequest{LevelTitle: "Mitosis"})
	require.NoError(t, err)
	assert.Equal(t, "Course: unknown\nLevel: Mitosis\nDescription: No description", got)
}

func TestGetLevelContent_UsesStoredMaterialInPrompt(t *testing.T) {
	svc, mock, store := newLevelService(t, llm.MockReply{Text: stepsV1})
	ctx := context.Background()
	require.NoError(t, store.SaveCourseMaterial(ctx, "c1", "mitochondria are the powerhouse"))

	_, err := svc.GetLevelContent(ctx, LevelContentRequest{CourseID: "c1", LevelID: "l1", LevelTitle: "Cells"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(mock.Calls[0].Messages[1].Content, "mitochondria are the powerhouse"))
}

func TestGetLevelContent_RecordsLearnerInput(t *testing.T) {
	svc, _, store := newLevelService(t, llm.MockReply{Text: stepsV1})
	ctx := context.Background()

	_, err := svc.GetLevelContent(ctx, LevelContentRequest{
		LevelID:         "l1",
		LevelTitle:      "Cells",
		UserID:          "alice",
		Feedback:        &generation.Feedback{Difficulty: model.TooHard},
		PreviousAnswers: []generation.Answer{{StepID: "step-2", Answer: "b", IsCorrect: false}},
	})
	require.NoError(t, err)

	feedback, err := store.ListUserFeedback(ctx, "alice", "l1")
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, model.TooHard, feedback[0].Difficulty)

	answers, err := store.ListUserAnswers(ctx, "alice", "l1")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "step-2", answers[0].StepID)
}

// blockingProvider 在 release 关闭前阻塞，用来制造并发未命中
type blockingProvider struct {
	*llm.MockProvider
	release chan struct{}
}

func (p *blockingProvider) GenerateCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.Completion, error) {
	<-p.release
	return p.MockProvider.GenerateCompletion(ctx, messages, opts)
}

func TestGetLevelContent_DedupeSharesGeneration(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Text: stepsV1}, llm.MockReply{Text: stepsV1})
	provider := &blockingProvider{MockProvider: mock, release: make(chan struct{})}
	svc := NewLevelContentService(repository.NewMemoryStore(),
		generation.NewLevelGenerator(generation.Static(provider)), WithDedupe(true))

	var wg sync.WaitGroup
	results := make([]*LevelContentResult, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.GetLevelContent(context.Background(), LevelContentRequest{LevelID: "l1", LevelTitle: "Cells"})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	// 两个请求都进入 singleflight 后再放行
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	assert.Equal(t, 1, mock.CallCount())
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Equal(t, results[0].Steps, results[1].Steps)
}

func TestGetLevelContent_FailedGenerationRecordsNothing(t *testing.T) {
	svc, _, store := newLevelService(t, llm.MockReply{Err: &llm.UpstreamError{Provider: "mock", StatusCode: 500, Body: "boom"}})
	ctx := context.Background()

	_, err := svc.GetLevelContent(ctx, LevelContentRequest{
		LevelID:         "l1",
		LevelTitle:      "Cells",
		UserID:          "alice",
		Feedback:        &generation.Feedback{Text: "harder"},
		PreviousAnswers: []generation.Answer{{StepID: "step-2", Answer: "b"}},
	})
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)

	feedback, err := store.ListUserFeedback(ctx, "alice", "l1")
	require.NoError(t, err)
	assert.Empty(t, feedback)

	answers, err := store.ListUserAnswers(ctx, "alice", "l1")
	require.NoError(t, err)
	assert.Empty(t, answers)
}

// ctxAwareProvider 模拟真实 SDK，ctx 已结束时直接返回错误
type ctxAwareProvider struct {
	*llm.MockProvider
}

func (p *ctxAwareProvider) GenerateCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.MockProvider.GenerateCompletion(ctx, messages, opts)
}

func TestGetLevelContent_DedupeSurvivesCallerCancel(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Text: stepsV1})
	store := repository.NewMemoryStore()
	svc := NewLevelContentService(store,
		generation.NewLevelGenerator(generation.Static(&ctxAwareProvider{MockProvider: mock})), WithDedupe(true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.GetLevelContent(ctx, LevelContentRequest{LevelID: "l1", LevelTitle: "Cells"})
	require.NoError(t, err)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, 1, mock.CallCount())

	_, found, err := store.GetLevelContent(context.Background(), "l1")
	require.NoError(t, err)
	assert.True(t, found, "shared generation still fills the cache")
}
