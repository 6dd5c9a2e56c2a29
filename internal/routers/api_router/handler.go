// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/middleware"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	apperrors "github.com/pulse-beyond/pulse-beyond/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind binds and validates params; on failure it writes the invalid-params response
// and returns false
// bind 绑定并校验参数，失败时直接输出参数错误
func (h *Handler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error(method+".BindAndValid err", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()...).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// fail 记录错误并输出统一错误响应
func (h *Handler) fail(c *gin.Context, method string, err error) {
	h.logError(c.Request.Context(), method, err)
	apperrors.ErrorResponse(c, err)
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	)
}
