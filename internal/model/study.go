package model

import (
	"time"
)

const dateLayout = "2006-01-02"

// StudyRecord 一次学习记录，只追加不修改
type StudyRecord struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;index:idx_study_user_date;not null" json:"userId"`
	CourseID  string    `gorm:"size:64;not null" json:"courseId"`
	LevelID   *string   `gorm:"size:128" json:"levelId,omitempty"`
	StudyDate string    `gorm:"size:10;index:idx_study_user_date;not null" json:"studyDate"`
	Duration  int       `gorm:"not null;default:0" json:"duration"`
	XPEarned  int       `gorm:"column:xp_earned;not null;default:0" json:"xpEarned"`
	CreatedAt time.Time `json:"createdAt"`
}

func (StudyRecord) TableName() string {
	return "study_records"
}

// StudySession recordStudySession 的入参
type StudySession struct {
	UserID   string
	CourseID string
	LevelID  *string
	Duration int
	XPEarned int
}

type StudyResult struct {
	Streak   int `json:"streak"`
	XPEarned int `json:"xpEarned"`
}

type DailyStudy struct {
	StudyDate string `json:"studyDate"`
	Duration  int    `json:"duration"`
}

type TodayStats struct {
	Duration   int  `json:"duration"`
	XP         int  `json:"xp"`
	HasStudied bool `json:"hasStudied"`
}

type StudyStats struct {
	Today TodayStats   `json:"today"`
	Week  []DailyStudy `json:"week"`
}

// StudyDay 按 UTC 取日期字符串
func StudyDay(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// NextStreak 根据上次学习日期计算新的连续天数：
// 同一天不变，昨天则加一，其余情况重置为 1
func NextStreak(lastStudyDate *string, current int, now time.Time) int {
	if lastStudyDate == nil || *lastStudyDate == "" {
		return 1
	}
	today := StudyDay(now)
	yesterday := StudyDay(now.UTC().AddDate(0, 0, -1))

	switch *lastStudyDate {
	case today:
		if current < 1 {
			return 1
		}
		return current
	case yesterday:
		return current + 1
	default:
		return 1
	}
}
