package repository

import (
	"context"
	"time"

	"openlearner_backend/internal/model"

	"gorm.io/gorm"
)

type StudyRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewStudyRepository(db *gorm.DB, opts ...Option) *StudyRepository {
	return &StudyRepository{DB: db, now: buildOptions(opts).now}
}

// RecordStudySession 追加学习记录并更新连续天数与经验值
func (r *StudyRepository) RecordStudySession(ctx context.Context, session model.StudySession) (*model.StudyResult, error) {
	now := r.now()
	today := model.StudyDay(now)

	var result model.StudyResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := model.StudyRecord{
			ID:        model.NewID("study"),
			UserID:    session.UserID,
			CourseID:  session.CourseID,
			LevelID:   session.LevelID,
			StudyDate: today,
			Duration:  session.Duration,
			XPEarned:  session.XPEarned,
			CreatedAt: now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		user, err := ensureUser(tx, session.UserID, now)
		if err != nil {
			return err
		}
		streak := model.NextStreak(user.LastStudyDate, user.CurrentStreak, now)

		err = tx.Model(&model.User{}).
			Where("id = ?", session.UserID).
			Updates(map[string]interface{}{
				"current_streak":  streak,
				"last_study_date": today,
				"total_xp":        gorm.Expr("total_xp + ?", session.XPEarned),
			}).Error
		if err != nil {
			return err
		}

		result = model.StudyResult{Streak: streak, XPEarned: session.XPEarned}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *StudyRepository) HasStudiedToday(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.StudyRecord{}).
		Where("user_id = ? AND study_date = ?", userID, model.StudyDay(r.now())).
		Count(&n).Error
	return n > 0, err
}

func (r *StudyRepository) GetStudyStats(ctx context.Context, userID string) (*model.StudyStats, error) {
	db := r.DB.WithContext(ctx)
	today := model.StudyDay(r.now())

	var totals struct {
		Duration int
		XP       int
	}
	err := db.Model(&model.StudyRecord{}).
		Select("COALESCE(SUM(duration), 0) AS duration, COALESCE(SUM(xp_earned), 0) AS xp").
		Where("user_id = ? AND study_date = ?", userID, today).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	week := []model.DailyStudy{}
	err = db.Model(&model.StudyRecord{}).
		Select("study_date, duration").
		Where("user_id = ?", userID).
		Order("study_date DESC").
		Order("created_at DESC").
		Limit(weekRecordLimit).
		Scan(&week).Error
	if err != nil {
		return nil, err
	}

	return &model.StudyStats{
		Today: model.TodayStats{
			Duration:   totals.Duration,
			XP:         totals.XP,
			HasStudied: totals.Duration > 0,
		},
		Week: week,
	}, nil
}
