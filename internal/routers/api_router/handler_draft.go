package api_router

import (
	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
)

// DraftHandler 草稿与章节 API 路由处理器
type DraftHandler struct {
	*Handler
}

// NewDraftHandler 创建 DraftHandler 实例
func NewDraftHandler(a *app.App) *DraftHandler {
	return &DraftHandler{Handler: NewHandler(a)}
}

// Generate 生成草稿
// @Summary 生成正文章节
// @Description 为每条已选链接生成一个章节并替换旧章节；单条失败记录在 errors 中
// @Tags 草稿
// @Accept json
// @Produce json
// @Param params body dto.IssueScopedRequest true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=service.DraftResultDTO} "成功"
// @Router /api/draft [post]
func (h *DraftHandler) Generate(c *gin.Context) {
	params := &dto.IssueScopedRequest{}
	if !h.bind(c, "DraftHandler.Generate", params) {
		return
	}

	res, err := h.App.DraftService.Generate(c.Request.Context(), params.IssueID)
	if err != nil {
		h.fail(c, "DraftHandler.Generate", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(res))
}

// SelectTitle 选择章节标题
// @Summary 选择章节标题
// @Description title 必须是候选标题之一，customTitle 非空时优先
// @Tags 草稿
// @Accept json
// @Produce json
// @Param params body dto.SectionTitleRequest true "标题参数"
// @Success 200 {object} pkgapp.Res{data=service.SectionDTO} "成功"
// @Router /api/section/title [put]
func (h *DraftHandler) SelectTitle(c *gin.Context) {
	params := &dto.SectionTitleRequest{}
	if !h.bind(c, "DraftHandler.SelectTitle", params) {
		return
	}

	section, err := h.App.DraftService.SelectTitle(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "DraftHandler.SelectTitle", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(section))
}

// UpdateContent 保存章节编辑稿
// @Summary 保存章节编辑
// @Description 只写编辑层，原始生成内容保持不变
// @Tags 草稿
// @Accept json
// @Produce json
// @Param params body dto.SectionContentRequest true "章节内容"
// @Success 200 {object} pkgapp.Res{data=service.SectionDTO} "成功"
// @Router /api/section/content [put]
func (h *DraftHandler) UpdateContent(c *gin.Context) {
	params := &dto.SectionContentRequest{}
	if !h.bind(c, "DraftHandler.UpdateContent", params) {
		return
	}

	section, err := h.App.DraftService.UpdateContent(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "DraftHandler.UpdateContent", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(section))
}

// Diff 对比原始内容与编辑稿
// @Summary 章节差异
// @Tags 草稿
// @Produce json
// @Param id query int64 true "章节 ID"
// @Success 200 {object} pkgapp.Res{data=service.SectionDiffDTO} "成功"
// @Router /api/section/diff [get]
func (h *DraftHandler) Diff(c *gin.Context) {
	params := &dto.SectionGetRequest{}
	if !h.bind(c, "DraftHandler.Diff", params) {
		return
	}

	diff, err := h.App.DraftService.Diff(c.Request.Context(), params.ID)
	if err != nil {
		h.fail(c, "DraftHandler.Diff", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(diff))
}
