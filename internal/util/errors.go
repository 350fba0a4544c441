package util

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrCourseNotFound = newNotFound("Course not found")
	ErrLevelNotFound  = newNotFound("Level not found")
	ErrUserNotFound   = newNotFound("User not found")
)

// notFoundError 让各实体的 NotFound 错误都能被 errors.Is(err, ErrNotFound) 识别
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func newNotFound(msg string) error {
	return &notFoundError{msg: msg}
}

// ValidationError 请求字段缺失或不合法，映射为 400
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
