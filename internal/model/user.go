package model

import (
	"time"
)

const (
	DefaultEnergy    = 100
	DefaultMaxEnergy = 100
)

// User 学习者，首次访问时自动创建
// swagger:model User
type User struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	TotalXP       int       `gorm:"column:total_xp;not null;default:0" json:"totalXP"`
	CurrentStreak int       `gorm:"not null;default:0" json:"currentStreak"`
	Energy        int       `gorm:"not null;default:100" json:"energy"`
	MaxEnergy     int       `gorm:"not null;default:100" json:"maxEnergy"`
	LastStudyDate *string   `gorm:"size:10" json:"lastStudyDate"` // YYYY-MM-DD，UTC
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func NewUser(id string) *User {
	return &User{
		ID:        id,
		Energy:    DefaultEnergy,
		MaxEnergy: DefaultMaxEnergy,
	}
}
