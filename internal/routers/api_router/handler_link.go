package api_router

import (
	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LinkHandler 链接 API 路由处理器
type LinkHandler struct {
	*Handler
}

// NewLinkHandler 创建 LinkHandler 实例
func NewLinkHandler(a *app.App) *LinkHandler {
	return &LinkHandler{Handler: NewHandler(a)}
}

// Add 添加链接
// @Summary 添加链接
// @Description 抓取页面标题与描述，同一期刊内 URL 不可重复
// @Tags 链接
// @Accept json
// @Produce json
// @Param params body dto.LinkAddRequest true "链接参数"
// @Success 200 {object} pkgapp.Res{data=service.LinkDTO} "成功"
// @Router /api/link [post]
func (h *LinkHandler) Add(c *gin.Context) {
	params := &dto.LinkAddRequest{}
	if !h.bind(c, "LinkHandler.Add", params) {
		return
	}

	link, err := h.App.LinkService.Add(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "LinkHandler.Add", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(link))
}

// UpdateTone 更新语气备注
// @Summary 更新语气备注
// @Tags 链接
// @Accept json
// @Produce json
// @Param params body dto.LinkToneRequest true "备注参数"
// @Success 200 {object} pkgapp.Res{data=service.LinkDTO} "成功"
// @Router /api/link/tone [put]
func (h *LinkHandler) UpdateTone(c *gin.Context) {
	params := &dto.LinkToneRequest{}
	if !h.bind(c, "LinkHandler.UpdateTone", params) {
		return
	}

	link, err := h.App.LinkService.UpdateToneNote(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "LinkHandler.UpdateTone", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(link))
}

// Toggle 设置链接选中状态
// @Summary 选中或取消链接
// @Tags 链接
// @Accept json
// @Produce json
// @Param params body dto.LinkToggleRequest true "选中参数"
// @Success 200 {object} pkgapp.Res{data=service.LinkDTO} "成功"
// @Router /api/link/toggle [put]
func (h *LinkHandler) Toggle(c *gin.Context) {
	params := &dto.LinkToggleRequest{}
	if !h.bind(c, "LinkHandler.Toggle", params) {
		return
	}

	link, err := h.App.LinkService.Toggle(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "LinkHandler.Toggle", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(link))
}

// Remove 删除链接
// @Summary 删除链接
// @Tags 链接
// @Produce json
// @Param id query int64 true "链接 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/link [delete]
func (h *LinkHandler) Remove(c *gin.Context) {
	params := &dto.LinkGetRequest{}
	if !h.bind(c, "LinkHandler.Remove", params) {
		return
	}

	if err := h.App.LinkService.Remove(c.Request.Context(), params.ID); err != nil {
		h.fail(c, "LinkHandler.Remove", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// UploadAudio 上传语音备忘
// @Summary 上传语音备忘
// @Description multipart 表单，字段 id 与 file；转写失败时仍保存音频
// @Tags 链接
// @Accept multipart/form-data
// @Produce json
// @Param id formData int64 true "链接 ID"
// @Param file formData file true "音频文件"
// @Success 200 {object} pkgapp.Res{data=service.LinkDTO} "成功"
// @Router /api/link/audio [post]
func (h *LinkHandler) UploadAudio(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkAudioRequest{}
	if !h.bind(c, "LinkHandler.UploadAudio", params) {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.App.Logger().Error("LinkHandler.UploadAudio.FormFile err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails("file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.fail(c, "LinkHandler.UploadAudio.Open", code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}
	defer file.Close()

	link, err := h.App.LinkService.UploadAudio(c.Request.Context(), params.ID, file, header.Filename, header.Size)
	if err != nil {
		h.fail(c, "LinkHandler.UploadAudio", err)
		return
	}
	response.ToResponse(code.SuccessUpdate.WithData(link))
}

// SelectFinal 选择最终链接
// @Summary 选择最终链接
// @Description 链接多于 3 条时必须恰好选择 3 条；不超过 3 条时全部选中
// @Tags 链接
// @Accept json
// @Produce json
// @Param params body dto.LinkSelectRequest true "选择参数"
// @Success 200 {object} pkgapp.Res{data=[]service.LinkDTO} "成功"
// @Router /api/links/select [post]
func (h *LinkHandler) SelectFinal(c *gin.Context) {
	params := &dto.LinkSelectRequest{}
	if !h.bind(c, "LinkHandler.SelectFinal", params) {
		return
	}

	links, err := h.App.LinkService.SelectFinal(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "LinkHandler.SelectFinal", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(links))
}
