package api_router

import (
	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
)

// ExportHandler 短链、导出与配图 API 路由处理器
type ExportHandler struct {
	*Handler
}

// NewExportHandler 创建 ExportHandler 实例
func NewExportHandler(a *app.App) *ExportHandler {
	return &ExportHandler{Handler: NewHandler(a)}
}

// PreviewResponse 导出预览
type PreviewResponse struct {
	IssueID int64  `json:"issueId"`
	Content string `json:"content"`
}

// Shorten 为已选链接与事件生成短链
// @Summary 批量生成短链
// @Description 短链失败时保留原始链接
// @Tags 导出
// @Accept json
// @Produce json
// @Param params body dto.IssueScopedRequest true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=service.ShortenResultDTO} "成功"
// @Router /api/links/shorten [post]
func (h *ExportHandler) Shorten(c *gin.Context) {
	params := &dto.IssueScopedRequest{}
	if !h.bind(c, "ExportHandler.Shorten", params) {
		return
	}

	res, err := h.App.ShortenService.ShortenAll(c.Request.Context(), params.IssueID)
	if err != nil {
		h.fail(c, "ExportHandler.Shorten", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(res))
}

// Build 生成并保存导出文本
// @Summary 导出期刊
// @Tags 导出
// @Accept json
// @Produce json
// @Param params body dto.ExportBuildRequest true "导出参数"
// @Success 200 {object} pkgapp.Res{data=service.ExportDTO} "成功"
// @Router /api/export [post]
func (h *ExportHandler) Build(c *gin.Context) {
	params := &dto.ExportBuildRequest{}
	if !h.bind(c, "ExportHandler.Build", params) {
		return
	}

	export, err := h.App.ExportService.Build(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "ExportHandler.Build", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(export))
}

// Preview 渲染但不保存
// @Summary 导出预览
// @Tags 导出
// @Produce json
// @Param issueId query int64 true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=PreviewResponse} "成功"
// @Router /api/export/preview [get]
func (h *ExportHandler) Preview(c *gin.Context) {
	params := &dto.IssueScopedRequest{}
	if !h.bind(c, "ExportHandler.Preview", params) {
		return
	}

	content, err := h.App.ExportService.Preview(c.Request.Context(), params.IssueID)
	if err != nil {
		h.fail(c, "ExportHandler.Preview", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(PreviewResponse{IssueID: params.IssueID, Content: content}))
}

// List 导出历史
// @Summary 导出历史
// @Tags 导出
// @Produce json
// @Param issueId query int64 true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=[]service.ExportDTO} "成功"
// @Router /api/exports [get]
func (h *ExportHandler) List(c *gin.Context) {
	params := &dto.IssueScopedRequest{}
	if !h.bind(c, "ExportHandler.List", params) {
		return
	}

	exports, err := h.App.ExportService.List(c.Request.Context(), params.IssueID)
	if err != nil {
		h.fail(c, "ExportHandler.List", err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, exports, len(exports))
}

// GenerateImage 为章节生成配图
// @Summary 生成配图
// @Description 先由模型写出画面描述，再调用图像模型
// @Tags 配图
// @Accept json
// @Produce json
// @Param params body dto.ImageGenerateRequest true "配图参数"
// @Success 200 {object} pkgapp.Res{data=service.ImageDTO} "成功"
// @Router /api/image [post]
func (h *ExportHandler) GenerateImage(c *gin.Context) {
	params := &dto.ImageGenerateRequest{}
	if !h.bind(c, "ExportHandler.GenerateImage", params) {
		return
	}

	img, err := h.App.ImageService.Generate(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "ExportHandler.GenerateImage", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(img))
}

// ListImages 配图历史
// @Summary 配图历史
// @Tags 配图
// @Produce json
// @Param issueId query int64 true "期刊 ID"
// @Success 200 {object} pkgapp.Res{data=[]service.ImageDTO} "成功"
// @Router /api/images [get]
func (h *ExportHandler) ListImages(c *gin.Context) {
	params := &dto.IssueScopedRequest{}
	if !h.bind(c, "ExportHandler.ListImages", params) {
		return
	}

	images, err := h.App.ImageService.List(c.Request.Context(), params.IssueID)
	if err != nil {
		h.fail(c, "ExportHandler.ListImages", err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, images, len(images))
}
