package model

import (
	"fmt"
	"time"
)

// ProgressRecord 用户在某关卡的完成状态，每个 (user, level) 一行
type ProgressRecord struct {
	ID          string      `gorm:"primaryKey;size:255" json:"id"`
	UserID      string      `gorm:"size:64;index:idx_progress_user_course;not null" json:"userId"`
	CourseID    string      `gorm:"size:64;index:idx_progress_user_course;not null" json:"courseId"`
	LevelID     string      `gorm:"size:128;not null" json:"levelId"`
	Status      LevelStatus `gorm:"size:20;not null" json:"status"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (ProgressRecord) TableName() string {
	return "user_progress"
}

func ProgressID(userID, levelID string) string {
	return fmt.Sprintf("progress-%s-%s", userID, levelID)
}
