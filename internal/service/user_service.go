package service

import (
	"context"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"
)

type UserService struct {
	Store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{Store: store}
}

type UserProfile struct {
	User  *model.User       `json:"user"`
	Stats *model.StudyStats `json:"stats"`
}

// GetProfile 首次访问的用户会被自动创建
func (s *UserService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		userID = util.DefaultUserID
	}
	user, err := s.Store.GetOrCreateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Store.GetStudyStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: user, Stats: stats}, nil
}
