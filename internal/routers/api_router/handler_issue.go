package api_router

import (
	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
)

// IssueHandler 期刊 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type IssueHandler struct {
	*Handler
}

// NewIssueHandler 创建 IssueHandler 实例
func NewIssueHandler(a *app.App) *IssueHandler {
	return &IssueHandler{Handler: NewHandler(a)}
}

// Create 创建期刊
// @Summary 创建期刊
// @Description 标题缺省为 "Snapshot - 发布日期"，发布日期缺省为下一个周日
// @Tags 期刊
// @Accept json
// @Produce json
// @Param params body dto.IssueCreateRequest true "期刊参数"
// @Success 200 {object} pkgapp.Res{data=service.IssueDTO} "成功"
// @Router /api/issue [post]
func (h *IssueHandler) Create(c *gin.Context) {
	params := &dto.IssueCreateRequest{}
	if !h.bind(c, "IssueHandler.Create", params) {
		return
	}

	issue, err := h.App.IssueService.Create(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "IssueHandler.Create", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(issue))
}

// List 分页获取期刊
// @Summary 期刊列表
// @Tags 期刊
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]service.IssueDTO}} "成功"
// @Router /api/issues [get]
func (h *IssueHandler) List(c *gin.Context) {
	params := &dto.IssueListRequest{}
	if !h.bind(c, "IssueHandler.List", params) {
		return
	}

	pager := &pkgapp.Pager{Page: pkgapp.GetPage(c), PageSize: pkgapp.GetPageSize(c)}
	issues, count, err := h.App.IssueService.List(c.Request.Context(), pager)
	if err != nil {
		h.fail(c, "IssueHandler.List", err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, issues, int(count))
}

// Get 获取期刊完整内容
// @Summary 期刊详情
// @Description 返回期刊及其链接、事件、章节、导出记录，以及已完成步骤与可前往的步骤
// @Tags 期刊
// @Produce json
// @Param id query int64 true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=service.IssueDetailDTO} "成功"
// @Router /api/issue [get]
func (h *IssueHandler) Get(c *gin.Context) {
	params := &dto.IssueGetRequest{}
	if !h.bind(c, "IssueHandler.Get", params) {
		return
	}

	issue, err := h.App.IssueService.Get(c.Request.Context(), params.ID)
	if err != nil {
		h.fail(c, "IssueHandler.Get", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(issue))
}

// Update 更新期刊标题与发布日期
// @Summary 更新期刊
// @Tags 期刊
// @Accept json
// @Produce json
// @Param params body dto.IssueUpdateRequest true "期刊参数"
// @Success 200 {object} pkgapp.Res{data=service.IssueDTO} "成功"
// @Router /api/issue [put]
func (h *IssueHandler) Update(c *gin.Context) {
	params := &dto.IssueUpdateRequest{}
	if !h.bind(c, "IssueHandler.Update", params) {
		return
	}

	issue, err := h.App.IssueService.Update(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "IssueHandler.Update", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(issue))
}

// Delete 删除期刊及其全部内容
// @Summary 删除期刊
// @Tags 期刊
// @Produce json
// @Param id query int64 true "期刊 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/issue [delete]
func (h *IssueHandler) Delete(c *gin.Context) {
	params := &dto.IssueGetRequest{}
	if !h.bind(c, "IssueHandler.Delete", params) {
		return
	}

	if err := h.App.IssueService.Delete(c.Request.Context(), params.ID); err != nil {
		h.fail(c, "IssueHandler.Delete", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// SetStep 跳转工作流步骤
// @Summary 设置当前步骤
// @Description 只能前往已解锁的步骤；generate 需要已选链接
// @Tags 期刊
// @Accept json
// @Produce json
// @Param params body dto.IssueStepRequest true "步骤参数"
// @Success 200 {object} pkgapp.Res{data=service.IssueStepDTO} "成功"
// @Router /api/issue/step [put]
func (h *IssueHandler) SetStep(c *gin.Context) {
	params := &dto.IssueStepRequest{}
	if !h.bind(c, "IssueHandler.SetStep", params) {
		return
	}

	step, err := h.App.IssueService.SetStep(c.Request.Context(), params.ID, params.Step)
	if err != nil {
		h.fail(c, "IssueHandler.SetStep", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(step))
}

// Advance 前进到下一步
// @Summary 前进一步
// @Description 在 links 步骤且恰好有 3 条链接时全部选中并跳过 select
// @Tags 期刊
// @Accept json
// @Produce json
// @Param params body dto.IssueGetRequest true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=service.IssueStepDTO} "成功"
// @Router /api/issue/advance [post]
func (h *IssueHandler) Advance(c *gin.Context) {
	params := &dto.IssueGetRequest{}
	if !h.bind(c, "IssueHandler.Advance", params) {
		return
	}

	step, err := h.App.IssueService.Advance(c.Request.Context(), params.ID)
	if err != nil {
		h.fail(c, "IssueHandler.Advance", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(step))
}

// Open 尚未导出的期刊
// @Summary 未完成期刊
// @Description 供选题卡片选择目标期刊，按发布日期升序
// @Tags 期刊
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]service.OpenIssueDTO} "成功"
// @Router /api/issues/open [get]
func (h *IssueHandler) Open(c *gin.Context) {
	issues, err := h.App.IssueService.OpenIssues(c.Request.Context())
	if err != nil {
		h.fail(c, "IssueHandler.Open", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(issues))
}
