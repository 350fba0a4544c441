package repository

import (
	"context"
	"time"

	"openlearner_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewFeedbackRepository(db *gorm.DB, opts ...Option) *FeedbackRepository {
	return &FeedbackRepository{DB: db, now: buildOptions(opts).now}
}

func (r *FeedbackRepository) SaveUserAnswer(ctx context.Context, answer *model.UserAnswer) error {
	if answer.ID == "" {
		answer.ID = model.NewID("answer")
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = r.now()
	}
	return r.DB.WithContext(ctx).Create(answer).Error
}

// ListUserAnswers levelID 为空时返回该用户的全部作答
func (r *FeedbackRepository) ListUserAnswers(ctx context.Context, userID, levelID string) ([]model.UserAnswer, error) {
	answers := []model.UserAnswer{}
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if levelID != "" {
		query = query.Where("level_id = ?", levelID)
	}
	err := query.Order("created_at ASC").Find(&answers).Error
	return answers, err
}

func (r *FeedbackRepository) SaveUserFeedback(ctx context.Context, feedback *model.UserFeedback) error {
	if feedback.ID == "" {
		feedback.ID = model.NewID("feedback")
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = r.now()
	}
	return r.DB.WithContext(ctx).Create(feedback).Error
}

func (r *FeedbackRepository) ListUserFeedback(ctx context.Context, userID, levelID string) ([]model.UserFeedback, error) {
	feedback := []model.UserFeedback{}
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if levelID != "" {
		query = query.Where("level_id = ?", levelID)
	}
	err := query.Order("created_at ASC").Find(&feedback).Error
	return feedback, err
}
