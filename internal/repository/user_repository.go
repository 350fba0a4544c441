package repository

import (
	"context"
	"time"

	"openlearner_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewUserRepository(db *gorm.DB, opts ...Option) *UserRepository {
	return &UserRepository{DB: db, now: buildOptions(opts).now}
}

// ensureUser 并发首访时依赖主键冲突忽略，随后再读一次
func ensureUser(tx *gorm.DB, userID string, now time.Time) (*model.User, error) {
	u := model.NewUser(userID)
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(u).Error; err != nil {
		return nil, err
	}

	var user model.User
	if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetOrCreateUser(ctx context.Context, userID string) (*model.User, error) {
	return ensureUser(r.DB.WithContext(ctx), userID, r.now())
}

func (r *UserRepository) AddXP(ctx context.Context, userID string, delta int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, userID, r.now()); err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("total_xp", gorm.Expr("total_xp + ?", delta)).
			Error
	})
}
