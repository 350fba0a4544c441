package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"
	"openlearner_backend/pkg/logger"
	"openlearner_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type LevelContentRequest struct {
	CourseID         string               `json:"courseId"`
	LevelID          string               `json:"levelId"`
	LevelTitle       string               `json:"levelTitle"`
	LevelDescription string               `json:"levelDescription"`
	ChapterTitle     string               `json:"chapterTitle"`
	Material         string               `json:"material"`
	Difficulty       string               `json:"difficulty"`
	Feedback         *generation.Feedback `json:"userFeedback"`
	PreviousAnswers  []generation.Answer  `json:"previousAnswers"`
	GenerateNext     bool                 `json:"generateNext"`
	UserID           string               `json:"userId"`
}

type LevelContentResult struct {
	Steps  []model.LessonStep
	Cached bool
}

type LevelContentService struct {
	Store  repository.Store
	Levels *generation.LevelGenerator
	// TTL 为 0 时缓存永不过期
	TTL time.Duration

	group *singleflight.Group
	now   func() time.Time
}

type LevelContentOption func(*LevelContentService)

// WithDedupe 同一关卡的并发未命中只调用一次模型
func WithDedupe(enabled bool) LevelContentOption {
	return func(s *LevelContentService) {
		if enabled {
			s.group = &singleflight.Group{}
		}
	}
}

func WithCacheTTL(ttl time.Duration) LevelContentOption {
	return func(s *LevelContentService) {
		s.TTL = ttl
	}
}

func NewLevelContentService(store repository.Store, levels *generation.LevelGenerator, opts ...LevelContentOption) *LevelContentService {
	s := &LevelContentService{Store: store, Levels: levels, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShouldBypassCache 需要个性化内容时不读缓存
func ShouldBypassCache(req LevelContentRequest) bool {
	return req.GenerateNext || !req.Feedback.IsEmpty() || len(req.PreviousAnswers) > 0
}

func (s *LevelContentService) GetLevelContent(ctx context.Context, req LevelContentRequest) (*LevelContentResult, error) {
	if strings.TrimSpace(req.LevelTitle) == "" {
		return nil, util.NewValidationError("levelTitle", "Missing level title")
	}

	bypass := ShouldBypassCache(req)

	if req.LevelID != "" && !bypass {
		cached, found, err := s.Store.GetLevelContent(ctx, req.LevelID)
		if err != nil {
			return nil, err
		}
		if found && !cached.Expired(s.TTL, s.now()) {
			monitoring.LevelContentLookups.WithLabelValues("hit").Inc()
			return &LevelContentResult{Steps: cached.Steps, Cached: true}, nil
		}
		outcome := "miss"
		if found {
			outcome = "expired"
		}
		monitoring.LevelContentLookups.WithLabelValues(outcome).Inc()
	} else if bypass {
		monitoring.LevelContentLookups.WithLabelValues("bypass").Inc()
	}

	if s.group != nil && req.LevelID != "" && !bypass {
		// 共享的生成不随首个调用方取消
		v, err, shared := s.group.Do(req.LevelID, func() (interface{}, error) {
			return s.generate(context.WithoutCancel(ctx), req)
		})
		if err != nil {
			return nil, err
		}
		if shared {
			logger.Log.Debug("Shared in-flight level generation", zap.String("levelId", req.LevelID))
		}
		s.recordLearnerInput(ctx, req)
		return &LevelContentResult{Steps: model.CloneSteps(v.([]model.LessonStep))}, nil
	}

	steps, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	// 生成失败时不落库任何学习者输入
	s.recordLearnerInput(ctx, req)
	return &LevelContentResult{Steps: steps}, nil
}

func (s *LevelContentService) generate(ctx context.Context, req LevelContentRequest) ([]model.LessonStep, error) {
	material, err := s.ResolveMaterial(ctx, req)
	if err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = string(generation.Intermediate)
	}

	steps, err := s.Levels.GenerateLevelContent(ctx, generation.LevelRequest{
		LevelTitle:       req.LevelTitle,
		LevelDescription: req.LevelDescription,
		ChapterTitle:     req.ChapterTitle,
		Material:         material,
		Difficulty:       difficulty,
		Feedback:         req.Feedback,
		PreviousAnswers:  req.PreviousAnswers,
		GenerateNext:     req.GenerateNext,
	})
	if err != nil {
		return nil, err
	}

	if req.LevelID != "" {
		if err := s.Store.SaveLevelContent(ctx, req.LevelID, steps); err != nil {
			return nil, fmt.Errorf("save level content: %w", err)
		}
	}
	return steps, nil
}

// ResolveMaterial 依次使用请求中的资料、课程保存的资料、由标题拼出的占位资料
func (s *LevelContentService) ResolveMaterial(ctx context.Context, req LevelContentRequest) (string, error) {
	if strings.TrimSpace(req.Material) != "" {
		return req.Material, nil
	}
	if req.CourseID != "" {
		material, found, err := s.Store.GetCourseMaterial(ctx, req.CourseID)
		if err != nil {
			return "", err
		}
		if found && material != "" {
			return material, nil
		}
	}
	return placeholderMaterial(req), nil
}

func placeholderMaterial(req LevelContentRequest) string {
	courseID := req.CourseID
	if courseID == "" {
		courseID = "unknown"
	}
	description := req.LevelDescription
	if description == "" {
		description = "No description"
	}
	return fmt.Sprintf("Course: %s\nLevel: %s\nDescription: %s", courseID, req.LevelTitle, description)
}

// recordLearnerInput 随生成请求一起提交的反馈与作答，写入失败只记日志
func (s *LevelContentService) recordLearnerInput(ctx context.Context, req LevelContentRequest) {
	if req.LevelID == "" {
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = util.DefaultUserID
	}

	if !req.Feedback.IsEmpty() {
		err := s.Store.SaveUserFeedback(ctx, &model.UserFeedback{
			UserID:       userID,
			LevelID:      req.LevelID,
			Difficulty:   req.Feedback.Difficulty,
			FeedbackText: req.Feedback.Text,
		})
		if err != nil {
			logger.Log.Warn("Failed to record feedback", zap.String("levelId", req.LevelID), zap.Error(err))
		}
	}
	for _, a := range req.PreviousAnswers {
		err := s.Store.SaveUserAnswer(ctx, &model.UserAnswer{
			UserID:    userID,
			LevelID:   req.LevelID,
			StepID:    a.StepID,
			Answer:    a.Answer,
			IsCorrect: a.IsCorrect,
		})
		if err != nil {
			logger.Log.Warn("Failed to record answer", zap.String("levelId", req.LevelID), zap.Error(err))
		}
	}
}
