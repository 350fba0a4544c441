package repository

import (
	"context"
	"errors"
	"time"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/util"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewCourseRepository(db *gorm.DB, opts ...Option) *CourseRepository {
	return &CourseRepository{DB: db, now: buildOptions(opts).now}
}

func (r *CourseRepository) SaveCourse(ctx context.Context, course *model.Course, chapters []model.Chapter, levels []model.Level) error {
	if course.CreatedAt.IsZero() {
		course.CreatedAt = r.now()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		if len(chapters) > 0 {
			if err := tx.Create(&chapters).Error; err != nil {
				return err
			}
		}
		if len(levels) > 0 {
			for i := range levels {
				if levels[i].CreatedAt.IsZero() {
					levels[i].CreatedAt = course.CreatedAt
				}
			}
			if err := tx.Create(&levels).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) GetCourseWithDetails(ctx context.Context, courseID, userID string) (*model.CourseDetail, error) {
	db := r.DB.WithContext(ctx)

	var course model.Course
	if err := db.Where("id = ?", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	var chapters []model.Chapter
	if err := db.Where("course_id = ?", courseID).Order("order_index ASC, id ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}

	var levels []model.Level
	if err := db.Where("course_id = ?", courseID).Order("order_index ASC, id ASC").Find(&levels).Error; err != nil {
		return nil, err
	}

	completed, err := completedLevelIDs(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	if chapters == nil {
		chapters = []model.Chapter{}
	}
	if levels == nil {
		levels = []model.Level{}
	}
	return model.AssembleDetail(course, chapters, levels, completed), nil
}

func (r *CourseRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).
		Order("last_accessed_at IS NULL").
		Order("last_accessed_at DESC").
		Order("created_at DESC").
		Find(&courses).Error
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, err
}

func (r *CourseRepository) TouchCourse(ctx context.Context, courseID string) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("last_accessed_at", r.now()).
		Error
}

func (r *CourseRepository) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Count(&n).Error
	return n, err
}
