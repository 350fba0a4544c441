package service

import (
	"context"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"
)

type ProgressService struct {
	Store repository.Store
}

func NewProgressService(store repository.Store) *ProgressService {
	return &ProgressService{Store: store}
}

type UpdateProgressRequest struct {
	UserID   string            `json:"userId"`
	CourseID string            `json:"courseId"`
	LevelID  string            `json:"levelId"`
	Status   model.LevelStatus `json:"status"`
	XPEarned int               `json:"xpEarned"`
}

type CourseProgress struct {
	UserID          string   `json:"userId"`
	CourseID        string   `json:"courseId"`
	CompletedLevels []string `json:"completedLevels"`
}

// UpdateProgress 写入关卡状态；完成时累加经验值并刷新课程最近访问时间
func (s *ProgressService) UpdateProgress(ctx context.Context, req UpdateProgressRequest) error {
	if req.UserID == "" {
		req.UserID = util.DefaultUserID
	}
	if req.CourseID == "" || req.LevelID == "" || req.Status == "" {
		return util.NewValidationError("", "Missing required fields")
	}
	switch req.Status {
	case model.LevelLocked, model.LevelAvailable, model.LevelCompleted:
	default:
		return util.NewValidationError("status", "Invalid status")
	}
	if req.XPEarned < 0 {
		return util.NewValidationError("xpEarned", "xpEarned must not be negative")
	}

	if err := s.Store.UpsertProgress(ctx, req.UserID, req.CourseID, req.LevelID, req.Status); err != nil {
		return err
	}
	if req.Status == model.LevelCompleted && req.XPEarned > 0 {
		if err := s.Store.AddXP(ctx, req.UserID, req.XPEarned); err != nil {
			return err
		}
	}
	return s.Store.TouchCourse(ctx, req.CourseID)
}

func (s *ProgressService) GetProgress(ctx context.Context, userID, courseID string) (*CourseProgress, error) {
	if courseID == "" {
		return nil, util.NewValidationError("courseId", "Course ID required")
	}
	if userID == "" {
		userID = util.DefaultUserID
	}
	completed, err := s.Store.ListCompletedLevelIDs(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseProgress{UserID: userID, CourseID: courseID, CompletedLevels: completed}, nil
}
