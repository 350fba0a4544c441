package service

import (
	"context"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"
)

// FeedbackService 记录学习者的作答与难度反馈
type FeedbackService struct {
	Store repository.Store
}

func NewFeedbackService(store repository.Store) *FeedbackService {
	return &FeedbackService{Store: store}
}

type RecordAnswerRequest struct {
	UserID    string `json:"userId"`
	LevelID   string `json:"levelId"`
	StepID    string `json:"stepId"`
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"isCorrect"`
}

type RecordFeedbackRequest struct {
	UserID       string                   `json:"userId"`
	LevelID      string                   `json:"levelId"`
	Difficulty   model.FeedbackDifficulty `json:"difficulty"`
	FeedbackText string                   `json:"feedbackText"`
}

func (s *FeedbackService) RecordAnswer(ctx context.Context, req RecordAnswerRequest) error {
	if req.UserID == "" {
		req.UserID = util.DefaultUserID
	}
	if req.LevelID == "" || req.StepID == "" {
		return util.NewValidationError("", "Missing required fields")
	}
	return s.Store.SaveUserAnswer(ctx, &model.UserAnswer{
		UserID:    req.UserID,
		LevelID:   req.LevelID,
		StepID:    req.StepID,
		Answer:    req.Answer,
		IsCorrect: req.IsCorrect,
	})
}

func (s *FeedbackService) RecordFeedback(ctx context.Context, req RecordFeedbackRequest) error {
	if req.UserID == "" {
		req.UserID = util.DefaultUserID
	}
	if req.LevelID == "" {
		return util.NewValidationError("levelId", "Missing required fields")
	}
	switch req.Difficulty {
	case "", model.TooEasy, model.JustRight, model.TooHard:
	default:
		return util.NewValidationError("difficulty", "Invalid difficulty feedback")
	}
	if req.Difficulty == "" && req.FeedbackText == "" {
		return util.NewValidationError("", "Feedback must include difficulty or text")
	}
	return s.Store.SaveUserFeedback(ctx, &model.UserFeedback{
		UserID:       req.UserID,
		LevelID:      req.LevelID,
		Difficulty:   req.Difficulty,
		FeedbackText: req.FeedbackText,
	})
}

func (s *FeedbackService) ListAnswers(ctx context.Context, userID, levelID string) ([]model.UserAnswer, error) {
	if userID == "" {
		userID = util.DefaultUserID
	}
	return s.Store.ListUserAnswers(ctx, userID, levelID)
}

func (s *FeedbackService) ListFeedback(ctx context.Context, userID, levelID string) ([]model.UserFeedback, error) {
	if userID == "" {
		userID = util.DefaultUserID
	}
	return s.Store.ListUserFeedback(ctx, userID, levelID)
}
