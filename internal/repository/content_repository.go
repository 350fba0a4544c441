package repository

import (
	"context"
	"errors"
	"time"

	"openlearner_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaterialRepository 课程资料存放在业务库中
type MaterialRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewMaterialRepository(db *gorm.DB, opts ...Option) *MaterialRepository {
	return &MaterialRepository{DB: db, now: buildOptions(opts).now}
}

func (r *MaterialRepository) SaveCourseMaterial(ctx context.Context, courseID, material string) error {
	rec := model.CourseMaterial{CourseID: courseID, Material: material, UploadedAt: r.now()}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (r *MaterialRepository) GetCourseMaterial(ctx context.Context, courseID string) (string, bool, error) {
	var rec model.CourseMaterial
	err := r.DB.WithContext(ctx).Where("course_id = ?", courseID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Material, true, nil
}

type LevelContentRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewLevelContentRepository(db *gorm.DB, opts ...Option) *LevelContentRepository {
	return &LevelContentRepository{DB: db, now: buildOptions(opts).now}
}

// SaveLevelContent 覆盖写入，GeneratedAt 取当前时间
func (r *LevelContentRepository) SaveLevelContent(ctx context.Context, levelID string, steps []model.LessonStep) error {
	rec := model.LevelContentCache{LevelID: levelID, Steps: steps, GeneratedAt: r.now()}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (r *LevelContentRepository) GetLevelContent(ctx context.Context, levelID string) (*model.LevelContentCache, bool, error) {
	var rec model.LevelContentCache
	err := r.DB.WithContext(ctx).Where("level_id = ?", levelID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func (r *LevelContentRepository) PruneLevelContent(ctx context.Context, before time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("generated_at < ?", before).Delete(&model.LevelContentCache{})
	return res.RowsAffected, res.Error
}
