// Package errors converts service errors into the unified JSON error envelope
// Package errors 将服务层错误转换为统一的 JSON 错误响应
package errors

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulse-beyond/pulse-beyond/internal/middleware"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
)

// AppError 统一应用错误结构体
type AppError struct {
	Code      int       `json:"code"`
	Status    bool      `json:"status"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    strings.Join(c.Details(), ","),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: c.StatusCode(),
	}
}

// Wrap attaches a Code to an underlying error, keeping the cause for logs
// Wrap 为底层错误附加 Code，保留原始错误用于日志
func Wrap(c *code.Code, cause error) error {
	if cause == nil {
		return nil
	}
	return NewAppError(c, cause)
}

// CodeOf 返回错误链中的 Code，找不到时为 nil
func CodeOf(err error) *code.Code {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}
	return nil
}

// Is reports whether err carries the given Code
// Is 判断错误链中是否包含指定 Code
func Is(err error, c *code.Code) bool {
	if errors.Is(err, c) {
		return true
	}
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == c.Code()
}

// ErrorResponse 统一错误响应处理
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		status := appErr.httpStatus
		if status == 0 {
			status = http.StatusOK
		}
		c.Set("status_code", status)
		c.JSON(status, appErr)
		return
	}

	if codeErr := CodeOf(err); codeErr != nil {
		c.Set("status_code", codeErr.StatusCode())
		c.JSON(codeErr.StatusCode(), &AppError{
			Code:      codeErr.Code(),
			Message:   codeErr.Msg(),
			Details:   strings.Join(codeErr.Details(), ","),
			TraceID:   traceID,
			Timestamp: time.Now(),
		})
		return
	}

	internal := code.ErrorServerInternal
	c.Set("status_code", internal.StatusCode())
	c.JSON(internal.StatusCode(), &AppError{
		Code:      internal.Code(),
		Message:   internal.Msg(),
		TraceID:   traceID,
		Timestamp: time.Now(),
	})
}
