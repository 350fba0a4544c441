package util

import (
	"errors"
	"net/http"
	"runtime/debug"
	"unicode/utf8"

	"openlearner_backend/internal/llm"
	"openlearner_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxDetailLength 上游返回体或模型原文过长时截断
const maxDetailLength = 2000

// Response 成功响应
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse 错误响应，stack 只在 debug 模式下返回
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// HandleError 把业务错误映射为 HTTP 状态码，5xx 记录日志
func HandleError(c *gin.Context, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
		if gin.IsDebugging() {
			body.Stack = string(debug.Stack())
		}
	}
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, ErrorResponse) {
	var (
		validationErr *ValidationError
		configErr     *llm.ConfigurationError
		upstreamErr   *llm.UpstreamError
		parseErr      *llm.GenerationParseError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: validationErr.Message}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "AI provider is not configured",
			Details: configErr.Error(),
		}
	case errors.As(err, &upstreamErr):
		details := upstreamErr.Body
		if details == "" {
			details = upstreamErr.Error()
		}
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "AI provider request failed",
			Details: truncate(details),
		}
	case errors.As(err, &parseErr):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to parse AI response",
			Details: truncate(parseErr.Error()),
		}
	default:
		resp := ErrorResponse{Error: "Internal server error"}
		if gin.IsDebugging() {
			resp.Details = err.Error()
		}
		return http.StatusInternalServerError, resp
	}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxDetailLength {
		return s
	}
	return string([]rune(s)[:maxDetailLength]) + "..."
}
