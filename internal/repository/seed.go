package repository

import (
	"context"

	"openlearner_backend/internal/model"
	"openlearner_backend/pkg/logger"

	"go.uber.org/zap"
)

const SampleCourseID = "course-sample-001"

// SeedSampleCourse 库中没有任何课程时写入一门示例课程
func SeedSampleCourse(ctx context.Context, store Store) error {
	n, err := store.CountCourses(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	course, chapters, levels := sampleCourse()
	if err := store.SaveCourse(ctx, course, chapters, levels); err != nil {
		return err
	}
	logger.Log.Info("Seeded sample course", zap.String("courseId", course.ID))
	return nil
}

func sampleCourse() (*model.Course, []model.Chapter, []model.Level) {
	chapterID := "chapter-sample-001"
	course := &model.Course{
		ID:          SampleCourseID,
		Title:       "Welcome to OpenLearner",
		Description: "A short tour of how lessons, quizzes and streaks work",
		Icon:        "🎓",
		Lessons:     3,
		Exercises:   3,
	}
	chapters := []model.Chapter{{
		ID:          chapterID,
		CourseID:    SampleCourseID,
		Title:       "Getting Started",
		Description: "Learn the basics of learning here",
		Order:       1,
	}}

	levels := []model.Level{
		{
			ID:          "level-sample-001",
			Title:       "How lessons work",
			Description: "Cards, quizzes and XP",
			Order:       1,
			XPReward:    50,
			Steps: []model.LessonStep{
				{ID: "step-1", Type: model.StepInfo, Title: "Bite-sized cards", Content: "Every level is a handful of short cards followed by a quick check."},
				{
					ID: "step-2", Type: model.StepMultipleChoice, Content: "Quick check",
					Question: "What do you earn when you finish a level?",
					Options: []model.QuizOption{
						{ID: "opt-1", Text: "XP", IsCorrect: true},
						{ID: "opt-2", Text: "Nothing", IsCorrect: false},
					},
				},
			},
		},
		{
			ID:          "level-sample-002",
			Title:       "Keeping a streak",
			Description: "Study a little every day",
			Order:       2,
			XPReward:    50,
		},
		{
			ID:          "level-sample-003",
			Title:       "Make your own course",
			Description: "Paste your notes and let AI build the path",
			Order:       3,
			XPReward:    100,
		},
	}
	for i := range levels {
		levels[i].CourseID = SampleCourseID
		levels[i].ChapterID = chapterID
		levels[i].Status = model.LevelAvailable
		if levels[i].Steps == nil {
			levels[i].Steps = []model.LessonStep{}
		}
	}
	return course, chapters, levels
}
