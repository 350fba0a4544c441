package model

import (
	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// NewID 生成带前缀的业务主键，如 course-xxxx
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
