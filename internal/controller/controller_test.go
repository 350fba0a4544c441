package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"openlearner_backend/internal/config"
	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineReply = `{"title":"Plant Energy","description":"How plants make food","chapters":[{"title":"Light"}],"levels":[{"title":"Chlorophyll","description":"d1","chapterIndex":0}]}`

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
	mock   *llm.MockProvider
}

func newTestServer(t *testing.T, replies ...llm.MockReply) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	mock := llm.NewMockProvider(replies...)
	registry := llm.NewRegistry(config.AIConfig{Provider: "mock"}, llm.WithProvider("mock", mock))

	courseSvc := service.NewCourseService(store, generation.NewOutlineGenerator(registry))
	levelSvc := service.NewLevelContentService(store, generation.NewLevelGenerator(registry))
	aiSvc := service.NewAIService(registry)

	ai := NewAIController(courseSvc, levelSvc, aiSvc)
	course := NewCourseController(courseSvc)
	progress := NewProgressController(service.NewProgressService(store))
	study := NewStudyController(service.NewStudyService(store))
	user := NewUserController(service.NewUserService(store), aiSvc)
	feedback := NewFeedbackController(service.NewFeedbackService(store))

	r := gin.New()
	r.GET("/health", NewHealthController(store, registry).HealthCheck)
	r.POST("/api/ai/generate-course", ai.GenerateCourse)
	r.POST("/api/ai/generate-level", ai.GenerateLevel)
	r.GET("/api/ai/providers", ai.ListProviders)
	r.GET("/api/courses", course.GetCourses)
	r.GET("/api/progress", progress.GetProgress)
	r.POST("/api/progress", progress.UpdateProgress)
	r.GET("/api/study", study.GetStudy)
	r.POST("/api/study", study.RecordStudy)
	r.GET("/api/user", user.GetUser)
	r.POST("/api/user", user.Assist)
	r.GET("/api/feedback", feedback.ListFeedback)
	r.POST("/api/feedback", feedback.RecordFeedback)

	return &testServer{router: r, store: store, mock: mock}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGenerateCourse_MaterialBoundary(t *testing.T) {
	s := newTestServer(t, llm.MockReply{Text: outlineReply})

	w := s.do(t, http.MethodPost, "/api/ai/generate-course", gin.H{"material": strings.Repeat("a", 49)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Material must be at least 50 characters long", decode(t, w)["error"])
	assert.Equal(t, 0, s.mock.CallCount())

	w = s.do(t, http.MethodPost, "/api/ai/generate-course", gin.H{"material": strings.Repeat("a", 50)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	courseID := data["courseId"].(string)
	assert.NotEmpty(t, courseID)

	w = s.do(t, http.MethodGet, "/api/courses?id="+courseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)
	assert.Len(t, detail["levels"], 1)
	assert.Len(t, detail["chapters"], 1)
}

func TestGenerateCourse_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, llm.MockReply{Err: &llm.UpstreamError{Provider: "mock", StatusCode: 502, Body: "bad gateway"}})

	w := s.do(t, http.MethodPost, "/api/ai/generate-course", gin.H{"material": strings.Repeat("a", 60)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "AI provider request failed", body["error"])
	assert.Equal(t, "bad gateway", body["details"])
}

func TestGenerateLevel_CachedFlag(t *testing.T) {
	s := newTestServer(t, llm.MockReply{Text: `{"steps":[{"type":"info","content":"hello"}]}`})
	req := gin.H{"courseId": "c1", "levelId": "l1", "levelTitle": "Cells"}

	w := s.do(t, http.MethodPost, "/api/ai/generate-level", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, false, first["cached"])

	w = s.do(t, http.MethodPost, "/api/ai/generate-level", req)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode(t, w)
	assert.Equal(t, true, second["cached"])
	assert.Equal(t, first["data"], second["data"])
	assert.Equal(t, 1, s.mock.CallCount())

	w = s.do(t, http.MethodPost, "/api/ai/generate-level", gin.H{"levelId": "l1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing level title", decode(t, w)["error"])
}

func TestProgress_CompletionAddsXP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, repository.SeedSampleCourse(ctx, s.store))
	require.NoError(t, s.store.AddXP(ctx, "user-1", 100))

	w := s.do(t, http.MethodPost, "/api/progress", gin.H{
		"userId":   "user-1",
		"courseId": repository.SampleCourseID,
		"levelId":  "level-sample-001",
		"status":   "completed",
		"xpEarned": 50,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Progress updated", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/api/user?userId=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.EqualValues(t, 150, user["totalXP"])

	w = s.do(t, http.MethodGet, "/api/progress?courseId="+repository.SampleCourseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"level-sample-001"}, decode(t, w)["completedLevels"])
}

func TestProgress_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/progress", gin.H{"courseId": "c1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/progress", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Course ID required", decode(t, w)["error"])
}

func TestCourses_UnknownCourse(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/courses?id=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/courses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "courses")
}

func TestUser_Actions(t *testing.T) {
	s := newTestServer(t, llm.MockReply{Text: "  Think about the light.  "})

	w := s.do(t, http.MethodPost, "/api/user?action=dance", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid action", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/user?action=hint", gin.H{"question": "What powers photosynthesis?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Think about the light.", decode(t, w)["hint"])

	w = s.do(t, http.MethodPost, "/api/user?action=explain", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing content", decode(t, w)["error"])
}

func TestUser_HintFallsBackWhenProviderUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.mock.SetAvailable(false)

	w := s.do(t, http.MethodPost, "/api/user?action=hint", gin.H{"question": "Why?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, generation.HintUnavailable, decode(t, w)["hint"])
}

func TestStudy_RecordAndToday(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/study?type=today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["hasStudied"])

	w = s.do(t, http.MethodPost, "/api/study", gin.H{"courseId": "c1", "duration": 300, "xpEarned": 20})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["streak"])

	w = s.do(t, http.MethodGet, "/api/study?type=today", nil)
	assert.Equal(t, true, decode(t, w)["hasStudied"])
}

func TestFeedback_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/feedback", gin.H{"levelId": "l1", "difficulty": "too_hard"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/feedback?levelId=l1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["feedback"], 1)
}

func TestProviders(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/ai/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mock", decode(t, w)["selected"])
}

type brokenStore struct {
	*repository.MemoryStore
}

func (brokenStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	ai := body["components"].(map[string]interface{})["ai"].(map[string]interface{})
	assert.Equal(t, "mock", ai["provider"])
	assert.Equal(t, "configured", ai["status"])

	r := gin.New()
	r.GET("/health", NewHealthController(brokenStore{repository.NewMemoryStore()}, nil).HealthCheck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
