package service

import (
	"context"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"
)

type StudyService struct {
	Store repository.Store
}

func NewStudyService(store repository.Store) *StudyService {
	return &StudyService{Store: store}
}

type RecordStudyRequest struct {
	UserID   string  `json:"userId"`
	CourseID string  `json:"courseId"`
	LevelID  *string `json:"levelId"`
	Duration int     `json:"duration"`
	XPEarned int     `json:"xpEarned"`
}

func (s *StudyService) RecordSession(ctx context.Context, req RecordStudyRequest) (*model.StudyResult, error) {
	if req.UserID == "" {
		req.UserID = util.DefaultUserID
	}
	if req.CourseID == "" {
		return nil, util.NewValidationError("courseId", "Missing required fields")
	}
	if req.Duration < 0 || req.XPEarned < 0 {
		return nil, util.NewValidationError("", "duration and xpEarned must not be negative")
	}
	if req.LevelID != nil && *req.LevelID == "" {
		req.LevelID = nil
	}

	return s.Store.RecordStudySession(ctx, model.StudySession{
		UserID:   req.UserID,
		CourseID: req.CourseID,
		LevelID:  req.LevelID,
		Duration: req.Duration,
		XPEarned: req.XPEarned,
	})
}

func (s *StudyService) HasStudiedToday(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		userID = util.DefaultUserID
	}
	return s.Store.HasStudiedToday(ctx, userID)
}

func (s *StudyService) GetStats(ctx context.Context, userID string) (*model.StudyStats, error) {
	if userID == "" {
		userID = util.DefaultUserID
	}
	return s.Store.GetStudyStats(ctx, userID)
}
