package service

import (
	"context"
	"testing"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProgress_CompletedAddsXP(t *testing.T) {
	store := repository.NewMemoryStore()
	require.NoError(t, repository.SeedSampleCourse(context.Background(), store))
	svc := NewProgressService(store)
	users := NewUserService(store)
	ctx := context.Background()

	require.NoError(t, store.AddXP(ctx, "alice", 100))

	err := svc.UpdateProgress(ctx, UpdateProgressRequest{
		UserID: "alice", CourseID: repository.SampleCourseID, LevelID: "level-sample-001",
		Status: model.LevelCompleted, XPEarned: 50,
	})
	require.NoError(t, err)

	after, err := users.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 150, after.User.TotalXP)

	progress, err := svc.GetProgress(ctx, "alice", repository.SampleCourseID)
	require.NoError(t, err)
	assert.Equal(t, []string{"level-sample-001"}, progress.CompletedLevels)

	courses, err := store.ListCourses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, courses[0].LastAccessedAt)
}

func TestUpdateProgress_NonCompletedIgnoresXP(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewProgressService(store)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProgress(ctx, UpdateProgressRequest{
		CourseID: "c1", LevelID: "l1", Status: model.LevelAvailable, XPEarned: 50,
	}))
	u, err := store.GetOrCreateUser(ctx, util.DefaultUserID)
	require.NoError(t, err)
	assert.Zero(t, u.TotalXP)
}

func TestUpdateProgress_Validation(t *testing.T) {
	svc := NewProgressService(repository.NewMemoryStore())
	ctx := context.Background()

	var vErr *util.ValidationError
	err := svc.UpdateProgress(ctx, UpdateProgressRequest{CourseID: "c1", Status: model.LevelCompleted})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Missing required fields", vErr.Message)

	err = svc.UpdateProgress(ctx, UpdateProgressRequest{CourseID: "c1", LevelID: "l1", Status: "done"})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.GetProgress(ctx, "alice", "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Course ID required", vErr.Message)
}

func TestStudyService_RecordSession(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	empty := ""
	res, err := svc.RecordSession(ctx, RecordStudyRequest{CourseID: "c1", LevelID: &empty, Duration: 300, XPEarned: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 20, res.XPEarned)

	studied, err := svc.HasStudiedToday(ctx, "")
	require.NoError(t, err)
	assert.True(t, studied)

	_, err = svc.RecordSession(ctx, RecordStudyRequest{})
	var vErr *util.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestFeedbackService(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewFeedbackService(store)
	ctx := context.Background()

	require.NoError(t, svc.RecordAnswer(ctx, RecordAnswerRequest{LevelID: "l1", StepID: "s1", Answer: "a", IsCorrect: true}))
	answers, err := svc.ListAnswers(ctx, "", "l1")
	require.NoError(t, err)
	assert.Len(t, answers, 1)

	require.NoError(t, svc.RecordFeedback(ctx, RecordFeedbackRequest{LevelID: "l1", Difficulty: model.JustRight}))
	var vErr *util.ValidationError
	assert.ErrorAs(t, svc.RecordFeedback(ctx, RecordFeedbackRequest{LevelID: "l1", Difficulty: "meh"}), &vErr)
	assert.ErrorAs(t, svc.RecordFeedback(ctx, RecordFeedbackRequest{LevelID: "l1"}), &vErr)
}
