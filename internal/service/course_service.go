package service

import (
	"context"
	"fmt"

	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/pkg/logger"

	"go.uber.org/zap"
)

type CourseService struct {
	Store    repository.Store
	Outlines *generation.OutlineGenerator
}

func NewCourseService(store repository.Store, outlines *generation.OutlineGenerator) *CourseService {
	return &CourseService{Store: store, Outlines: outlines}
}

type GenerateCourseRequest struct {
	Material   string `json:"material"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// CourseView 课程连同章节与关卡一次返回
type CourseView struct {
	model.Course
	Difficulty generation.Difficulty `json:"difficulty"`
	Chapters   []model.Chapter       `json:"chapters"`
	Levels     []model.Level         `json:"levels"`
}

type GeneratedCourse struct {
	CourseID string     `json:"courseId"`
	Course   CourseView `json:"course"`
}

// GenerateCourse 生成大纲后落库；关卡内容留空，进入关卡时再生成
func (s *CourseService) GenerateCourse(ctx context.Context, req GenerateCourseRequest) (*GeneratedCourse, error) {
	outline, err := s.Outlines.GenerateCourseOutline(ctx, generation.OutlineRequest{
		Material:   req.Material,
		Title:      req.Title,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return nil, err
	}

	view := BuildCourse(model.NewID("course"), outline)
	// 先存资料再存课程：资料写入失败时课程不可见
	material, _ := generation.ValidateMaterial(req.Material)
	if err := s.Store.SaveCourseMaterial(ctx, view.ID, material); err != nil {
		return nil, fmt.Errorf("save course material: %w", err)
	}
	if err := s.Store.SaveCourse(ctx, &view.Course, view.Chapters, view.Levels); err != nil {
		return nil, fmt.Errorf("save course: %w", err)
	}

	logger.Log.Info("Course generated",
		zap.String("courseId", view.ID),
		zap.Int("chapters", len(view.Chapters)),
		zap.Int("levels", len(view.Levels)))

	return &GeneratedCourse{CourseID: view.ID, Course: *view}, nil
}

// BuildCourse 把大纲转换为待保存的课程、章节与关卡
func BuildCourse(courseID string, outline *generation.CourseOutline) *CourseView {
	chapters := make([]model.Chapter, len(outline.Chapters))
	for i, ch := range outline.Chapters {
		chapters[i] = model.Chapter{
			ID:          fmt.Sprintf("chapter-%s-%d", courseID, i),
			CourseID:    courseID,
			Title:       ch.Title,
			Description: ch.Description,
			Order:       i + 1,
		}
	}

	levels := make([]model.Level, len(outline.Levels))
	for i, lv := range outline.Levels {
		chapterIdx := generation.ResolveChapterIndex(int(lv.ChapterIndex), len(chapters))
		levels[i] = model.Level{
			ID:          fmt.Sprintf("level-%s-%d", courseID, i),
			CourseID:    courseID,
			ChapterID:   chapters[chapterIdx].ID,
			Title:       lv.Title,
			Description: lv.Description,
			Order:       int(lv.Order),
			Status:      model.LevelAvailable,
			Steps:       []model.LessonStep{},
			XPReward:    int(lv.XPReward),
		}
	}

	detail := model.AssembleDetail(model.Course{
		ID:          courseID,
		Title:       outline.Title,
		Description: outline.Description,
		Icon:        outline.Icon,
		Lessons:     len(levels),
		Exercises:   2 * len(levels),
	}, chapters, levels, nil)

	return &CourseView{
		Course:     detail.Course,
		Difficulty: outline.Difficulty,
		Chapters:   detail.Chapters,
		Levels:     detail.Levels,
	}
}

func (s *CourseService) GetCourse(ctx context.Context, courseID, userID string) (*model.CourseDetail, error) {
	return s.Store.GetCourseWithDetails(ctx, courseID, userID)
}

func (s *CourseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.Store.ListCourses(ctx)
}
