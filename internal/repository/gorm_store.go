package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore 由各实体仓库组合而成，sqlite / mysql / postgres 通用
type GormStore struct {
	*UserRepository
	*CourseRepository
	*ProgressRepository
	*StudyRepository
	*MaterialRepository
	*LevelContentRepository
	*FeedbackRepository

	db *gorm.DB
}

func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	return &GormStore{
		UserRepository:         NewUserRepository(db, opts...),
		CourseRepository:       NewCourseRepository(db, opts...),
		ProgressRepository:     NewProgressRepository(db, opts...),
		StudyRepository:        NewStudyRepository(db, opts...),
		MaterialRepository:     NewMaterialRepository(db, opts...),
		LevelContentRepository: NewLevelContentRepository(db, opts...),
		FeedbackRepository:     NewFeedbackRepository(db, opts...),
		db:                     db,
	}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
