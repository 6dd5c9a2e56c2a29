package api_router

import (
	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
)

// DiscoveryHandler 选题卡片与历史期刊 API 路由处理器
type DiscoveryHandler struct {
	*Handler
}

// NewDiscoveryHandler 创建 DiscoveryHandler 实例
func NewDiscoveryHandler(a *app.App) *DiscoveryHandler {
	return &DiscoveryHandler{Handler: NewHandler(a)}
}

// ArchiveTopicsResponse 历史期刊主题索引
type ArchiveTopicsResponse struct {
	Issues int    `json:"issues"`
	Index  string `json:"index"`
}

// ArchiveSearchResponse 历史期刊检索结果，context 为空表示无相关内容
type ArchiveSearchResponse struct {
	Context string `json:"context"`
}

// Cards 本期候选选题
// @Summary 选题卡片
// @Description 汇总订阅源与新闻搜索，按编辑方向排序后生成卡片；结果会缓存
// @Tags 选题
// @Produce json
// @Param refresh query bool false "跳过缓存"
// @Param topic query string false "主题过滤"
// @Success 200 {object} pkgapp.Res{data=[]service.DiscoveryCard} "成功"
// @Router /api/discovery/cards [get]
func (h *DiscoveryHandler) Cards(c *gin.Context) {
	params := &dto.DiscoveryCardsRequest{}
	if !h.bind(c, "DiscoveryHandler.Cards", params) {
		return
	}

	cards, err := h.App.DiscoveryService.FetchCards(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "DiscoveryHandler.Cards", err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, cards, len(cards))
}

// Add 将卡片加入期刊
// @Summary 卡片加入期刊
// @Tags 选题
// @Accept json
// @Produce json
// @Param params body dto.DiscoveryAddRequest true "卡片参数"
// @Success 200 {object} pkgapp.Res{data=service.LinkDTO} "成功"
// @Router /api/discovery/add [post]
func (h *DiscoveryHandler) Add(c *gin.Context) {
	params := &dto.DiscoveryAddRequest{}
	if !h.bind(c, "DiscoveryHandler.Add", params) {
		return
	}

	link, err := h.App.DiscoveryService.AddCardToEdition(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "DiscoveryHandler.Add", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(link))
}

// ArchiveTopics 历史期刊主题索引
// @Summary 历史主题索引
// @Tags 历史期刊
// @Produce json
// @Success 200 {object} pkgapp.Res{data=ArchiveTopicsResponse} "成功"
// @Router /api/archive/topics [get]
func (h *DiscoveryHandler) ArchiveTopics(c *gin.Context) {
	ctx := c.Request.Context()
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(ArchiveTopicsResponse{
		Issues: len(h.App.Archive.Issues(ctx)),
		Index:  h.App.Archive.TopicIndex(ctx),
	}))
}

// ArchiveSearch 历史期刊检索
// @Summary 检索历史期刊
// @Tags 历史期刊
// @Produce json
// @Param title query string false "标题"
// @Param description query string false "描述"
// @Param url query string false "链接"
// @Success 200 {object} pkgapp.Res{data=ArchiveSearchResponse} "成功"
// @Router /api/archive/search [get]
func (h *DiscoveryHandler) ArchiveSearch(c *gin.Context) {
	params := &dto.ArchiveSearchRequest{}
	if !h.bind(c, "DiscoveryHandler.ArchiveSearch", params) {
		return
	}

	res := h.App.Archive.Search(c.Request.Context(), params.Title, params.Description, params.URL)
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(ArchiveSearchResponse{Context: res}))
}
