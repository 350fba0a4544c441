package repository

import (
	"context"
	"time"

	"openlearner_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewProgressRepository(db *gorm.DB, opts ...Option) *ProgressRepository {
	return &ProgressRepository{DB: db, now: buildOptions(opts).now}
}

// UpsertProgress 每个 (user, level) 只保留一行，重复提交覆盖旧状态
func (r *ProgressRepository) UpsertProgress(ctx context.Context, userID, courseID, levelID string, status model.LevelStatus) error {
	now := r.now()
	rec := model.ProgressRecord{
		ID:        model.ProgressID(userID, levelID),
		UserID:    userID,
		CourseID:  courseID,
		LevelID:   levelID,
		Status:    status,
		UpdatedAt: now,
	}
	if status == model.LevelCompleted {
		rec.CompletedAt = &now
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (r *ProgressRepository) ListCompletedLevelIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	return completedLevelIDs(r.DB.WithContext(ctx), userID, courseID)
}

func completedLevelIDs(db *gorm.DB, userID, courseID string) ([]string, error) {
	ids := []string{}
	err := db.Model(&model.ProgressRecord{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.LevelCompleted).
		Order("level_id ASC").
		Pluck("level_id", &ids).Error
	return ids, err
}
