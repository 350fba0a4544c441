package repository

import (
	"context"
	"time"

	"openlearner_backend/internal/model"
)

type UserRepo interface {
	// GetOrCreateUser 不存在时以 XP 0、连续天数 0、能量 100/100 创建
	GetOrCreateUser(ctx context.Context, userID string) (*model.User, error)
	AddXP(ctx context.Context, userID string, delta int) error
}

type CourseRepo interface {
	// SaveCourse 课程、章节、关卡在一个事务内写入
	SaveCourse(ctx context.Context, course *model.Course, chapters []model.Chapter, levels []model.Level) error
	GetCourseWithDetails(ctx context.Context, courseID, userID string) (*model.CourseDetail, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	TouchCourse(ctx context.Context, courseID string) error
	CountCourses(ctx context.Context) (int64, error)
}

type ProgressRepo interface {
	UpsertProgress(ctx context.Context, userID, courseID, levelID string, status model.LevelStatus) error
	ListCompletedLevelIDs(ctx context.Context, userID, courseID string) ([]string, error)
}

type StudyRepo interface {
	RecordStudySession(ctx context.Context, session model.StudySession) (*model.StudyResult, error)
	HasStudiedToday(ctx context.Context, userID string) (bool, error)
	GetStudyStats(ctx context.Context, userID string) (*model.StudyStats, error)
}

type MaterialRepo interface {
	SaveCourseMaterial(ctx context.Context, courseID, material string) error
	GetCourseMaterial(ctx context.Context, courseID string) (string, bool, error)
}

type LevelContentRepo interface {
	SaveLevelContent(ctx context.Context, levelID string, steps []model.LessonStep) error
	GetLevelContent(ctx context.Context, levelID string) (*model.LevelContentCache, bool, error)
	// PruneLevelContent 删除 before 之前生成的缓存，返回删除条数
	PruneLevelContent(ctx context.Context, before time.Time) (int64, error)
}

type FeedbackRepo interface {
	SaveUserAnswer(ctx context.Context, answer *model.UserAnswer) error
	ListUserAnswers(ctx context.Context, userID, levelID string) ([]model.UserAnswer, error)
	SaveUserFeedback(ctx context.Context, feedback *model.UserFeedback) error
	ListUserFeedback(ctx context.Context, userID, levelID string) ([]model.UserFeedback, error)
}

// Store 业务层依赖的全部持久化操作，内存与数据库两种实现行为一致
type Store interface {
	UserRepo
	CourseRepo
	ProgressRepo
	StudyRepo
	MaterialRepo
	LevelContentRepo
	FeedbackRepo

	Ping(ctx context.Context) error
}

const weekRecordLimit = 7

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock 替换时间来源，测试连续学习天数时使用
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	now := o.now
	o.now = func() time.Time { return now().UTC() }
	return o
}
