package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseMaterial 生成课程时提交的原始资料，后续生成关卡内容时复用
type CourseMaterial struct {
	CourseID   string    `gorm:"primaryKey;size:64" json:"courseId"`
	Material   string    `gorm:"type:text;not null" json:"material"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (CourseMaterial) TableName() string {
	return "course_materials"
}

// LevelContentCache 关卡内容缓存，重新生成时整体覆盖
type LevelContentCache struct {
	LevelID     string         `gorm:"primaryKey;size:128" json:"levelId"`
	Steps       []LessonStep   `gorm:"-" json:"steps"`
	StepsJSON   datatypes.JSON `gorm:"column:steps;not null" json:"-"`
	GeneratedAt time.Time      `gorm:"index;not null" json:"generatedAt"`
}

func (LevelContentCache) TableName() string {
	return "level_content_cache"
}

func (c *LevelContentCache) BeforeSave(tx *gorm.DB) error {
	raw, err := marshalSteps(c.Steps)
	if err != nil {
		return err
	}
	c.StepsJSON = raw
	return nil
}

func (c *LevelContentCache) AfterFind(tx *gorm.DB) error {
	steps, err := unmarshalSteps(c.StepsJSON)
	if err != nil {
		return err
	}
	c.Steps = steps
	return nil
}

// Expired ttl 为 0 表示永不过期
func (c *LevelContentCache) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(c.GeneratedAt) > ttl
}
