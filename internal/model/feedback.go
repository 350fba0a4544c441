package model

import (
	"time"
)

type FeedbackDifficulty string

const (
	TooEasy   FeedbackDifficulty = "too_easy"
	JustRight FeedbackDifficulty = "just_right"
	TooHard   FeedbackDifficulty = "too_hard"
)

// UserAnswer 学习者在某一步的作答
type UserAnswer struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;index:idx_answer_user_level;not null" json:"userId"`
	LevelID   string    `gorm:"size:128;index:idx_answer_user_level;not null" json:"levelId"`
	StepID    string    `gorm:"size:64;not null" json:"stepId"`
	Answer    string    `gorm:"type:text" json:"answer"`
	IsCorrect bool      `gorm:"not null;default:false" json:"isCorrect"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// UserFeedback 学习者对关卡难度的反馈
type UserFeedback struct {
	ID           string             `gorm:"primaryKey;size:64" json:"id"`
	UserID       string             `gorm:"size:64;index:idx_feedback_user_level;not null" json:"userId"`
	LevelID      string             `gorm:"size:128;index:idx_feedback_user_level;not null" json:"levelId"`
	Difficulty   FeedbackDifficulty `gorm:"size:20" json:"difficulty,omitempty"`
	FeedbackText string             `gorm:"type:text" json:"feedbackText,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (UserFeedback) TableName() string {
	return "user_feedback"
}

// AllModels 需要自动迁移的表
func AllModels() []any {
	return []any{
		&User{},
		&Course{},
		&Chapter{},
		&Level{},
		&StudyRecord{},
		&ProgressRecord{},
		&CourseMaterial{},
		&LevelContentCache{},
		&UserAnswer{},
		&UserFeedback{},
	}
}
