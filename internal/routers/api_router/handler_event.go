package api_router

import (
	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
)

// EventHandler 即将发生事件 API 路由处理器
type EventHandler struct {
	*Handler
}

// NewEventHandler 创建 EventHandler 实例
func NewEventHandler(a *app.App) *EventHandler {
	return &EventHandler{Handler: NewHandler(a)}
}

// Fetch 生成下周事件
// @Summary 生成即将发生的事件
// @Description 发布日后的周一到周六；替换期刊现有事件
// @Tags 事件
// @Accept json
// @Produce json
// @Param params body dto.IssueScopedRequest true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=service.EventFetchDTO} "成功"
// @Router /api/events/fetch [post]
func (h *EventHandler) Fetch(c *gin.Context) {
	params := &dto.IssueScopedRequest{}
	if !h.bind(c, "EventHandler.Fetch", params) {
		return
	}

	res, err := h.App.EventService.FetchUpcoming(c.Request.Context(), params.IssueID)
	if err != nil {
		h.fail(c, "EventHandler.Fetch", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(res))
}

// Add 手动添加事件
// @Summary 添加事件
// @Tags 事件
// @Accept json
// @Produce json
// @Param params body dto.EventAddRequest true "事件参数"
// @Success 200 {object} pkgapp.Res{data=service.EventDTO} "成功"
// @Router /api/event [post]
func (h *EventHandler) Add(c *gin.Context) {
	params := &dto.EventAddRequest{}
	if !h.bind(c, "EventHandler.Add", params) {
		return
	}

	event, err := h.App.EventService.Add(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "EventHandler.Add", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(event))
}

// Update 更新事件
// @Summary 更新事件
// @Description 只更新传入的字段；来源链接变化时清除短链
// @Tags 事件
// @Accept json
// @Produce json
// @Param params body dto.EventUpdateRequest true "事件参数"
// @Success 200 {object} pkgapp.Res{data=service.EventDTO} "成功"
// @Router /api/event [put]
func (h *EventHandler) Update(c *gin.Context) {
	params := &dto.EventUpdateRequest{}
	if !h.bind(c, "EventHandler.Update", params) {
		return
	}

	event, err := h.App.EventService.Update(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "EventHandler.Update", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(event))
}

// Toggle 切换事件是否纳入导出
// @Summary 切换事件
// @Tags 事件
// @Accept json
// @Produce json
// @Param params body dto.EventGetRequest true "事件 ID"
// @Success 200 {object} pkgapp.Res{data=service.EventDTO} "成功"
// @Router /api/event/toggle [put]
func (h *EventHandler) Toggle(c *gin.Context) {
	params := &dto.EventGetRequest{}
	if !h.bind(c, "EventHandler.Toggle", params) {
		return
	}

	event, err := h.App.EventService.Toggle(c.Request.Context(), params.ID)
	if err != nil {
		h.fail(c, "EventHandler.Toggle", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(event))
}

// Remove 删除事件
// @Summary 删除事件
// @Tags 事件
// @Produce json
// @Param id query int64 true "事件 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/event [delete]
func (h *EventHandler) Remove(c *gin.Context) {
	params := &dto.EventGetRequest{}
	if !h.bind(c, "EventHandler.Remove", params) {
		return
	}

	if err := h.App.EventService.Remove(c.Request.Context(), params.ID); err != nil {
		h.fail(c, "EventHandler.Remove", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}
