package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LevelStatus string

const (
	LevelLocked    LevelStatus = "locked"
	LevelAvailable LevelStatus = "available"
	LevelCompleted LevelStatus = "completed"
)

type StepType string

const (
	StepInfo           StepType = "info"
	StepMultipleChoice StepType = "multiple_choice"
	StepSegmenter      StepType = "segmenter"
	StepConnector      StepType = "connector"
	StepCategorizer    StepType = "categorizer"
)

// QuizOption 单选题选项
type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// LessonStep 关卡中的一屏内容：知识卡片或测验。content 中可能内嵌 $公式$ 与动画标记，由前端渲染
type LessonStep struct {
	ID            string          `json:"id"`
	Type          StepType        `json:"type"`
	Title         string          `json:"title,omitempty"`
	Content       string          `json:"content"`
	Question      string          `json:"question,omitempty"`
	Hint          string          `json:"hint,omitempty"`
	Options       []QuizOption    `json:"options,omitempty"`
	CorrectAnswer any             `json:"correctAnswer,omitempty"`
	VisualAssets  json.RawMessage `json:"visualAssets,omitempty"`
}

// Level 课程中的一个关卡。Status 是大纲行上的默认状态，
// 用户维度的完成状态在读取时与 user_progress 合并，不回写到这里
// swagger:model Level
type Level struct {
	ID          string         `gorm:"primaryKey;size:128" json:"id"`
	CourseID    string         `gorm:"size:64;index;not null" json:"courseId"`
	ChapterID   string         `gorm:"size:128;index;not null" json:"chapterId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Order       int            `gorm:"column:order_index;not null" json:"order"`
	Status      LevelStatus    `gorm:"size:20;not null;default:'available'" json:"status"`
	Steps       []LessonStep   `gorm:"-" json:"steps"`
	StepsJSON   datatypes.JSON `gorm:"column:steps" json:"-"`
	XPReward    int            `gorm:"column:xp_reward;not null" json:"xpReward"`
	CreatedAt   time.Time      `json:"-"`
}

func (Level) TableName() string {
	return "levels"
}

func (l *Level) BeforeSave(tx *gorm.DB) error {
	raw, err := marshalSteps(l.Steps)
	if err != nil {
		return err
	}
	l.StepsJSON = raw
	return nil
}

func (l *Level) AfterFind(tx *gorm.DB) error {
	steps, err := unmarshalSteps(l.StepsJSON)
	if err != nil {
		return err
	}
	l.Steps = steps
	return nil
}

func marshalSteps(steps []LessonStep) (datatypes.JSON, error) {
	if steps == nil {
		steps = []LessonStep{}
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func unmarshalSteps(raw datatypes.JSON) ([]LessonStep, error) {
	steps := []LessonStep{}
	if len(raw) == 0 {
		return steps, nil
	}
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, err
	}
	if steps == nil {
		steps = []LessonStep{}
	}
	return steps, nil
}

// CloneSteps 深拷贝步骤，避免内存存储与调用方共享切片
func CloneSteps(steps []LessonStep) []LessonStep {
	if steps == nil {
		return []LessonStep{}
	}
	out := make([]LessonStep, len(steps))
	for i, s := range steps {
		out[i] = s
		if s.Options != nil {
			out[i].Options = append([]QuizOption(nil), s.Options...)
		}
		if s.VisualAssets != nil {
			out[i].VisualAssets = append(json.RawMessage(nil), s.VisualAssets...)
		}
	}
	return out
}
