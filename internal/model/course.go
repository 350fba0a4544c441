package model

import (
	"time"
)

// Course 由 AI 生成的学习路径
// swagger:model Course
type Course struct {
	ID             string     `gorm:"primaryKey;size:64" json:"id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Icon           string     `gorm:"size:32" json:"icon"`
	Thumbnail      string     `gorm:"size:512" json:"thumbnail,omitempty"`
	CoverImage     string     `gorm:"size:512" json:"coverImage,omitempty"`
	Lessons        int        `gorm:"not null;default:0" json:"lessons"`
	Exercises      int        `gorm:"not null;default:0" json:"exercises"`
	Progress       int        `gorm:"not null;default:0" json:"progress"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Chapter 课程内的章节，LevelIDs 读取时按关卡顺序计算
type Chapter struct {
	ID          string   `gorm:"primaryKey;size:128" json:"id"`
	CourseID    string   `gorm:"size:64;index;not null" json:"courseId"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Order       int      `gorm:"column:order_index;not null" json:"order"`
	LevelIDs    []string `gorm:"-" json:"levelIds"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// CourseDetail 课程详情，关卡状态已按用户进度合并
type CourseDetail struct {
	Course            Course    `json:"course"`
	Chapters          []Chapter `json:"chapters"`
	Levels            []Level   `json:"levels"`
	CompletedLevelIDs []string  `json:"completedLevelIds"`
}

// ProgressPercent 已完成关卡占比（0-100）
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return (completed*100 + total/2) / total
}

// AssembleDetail 为章节填充 levelIds、合并用户完成状态并计算进度
func AssembleDetail(course Course, chapters []Chapter, levels []Level, completed []string) *CourseDetail {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	byChapter := make(map[string][]string, len(chapters))
	completedHere := make([]string, 0, len(completed))
	for i := range levels {
		lv := &levels[i]
		if lv.Steps == nil {
			lv.Steps = []LessonStep{}
		}
		byChapter[lv.ChapterID] = append(byChapter[lv.ChapterID], lv.ID)
		if done[lv.ID] {
			lv.Status = LevelCompleted
			completedHere = append(completedHere, lv.ID)
		}
	}
	for i := range chapters {
		ids := byChapter[chapters[i].ID]
		if ids == nil {
			ids = []string{}
		}
		chapters[i].LevelIDs = ids
	}

	course.Progress = ProgressPercent(len(completedHere), len(levels))
	return &CourseDetail{
		Course:            course,
		Chapters:          chapters,
		Levels:            levels,
		CompletedLevelIDs: completedHere,
	}
}
