package dto

// ExportBuildRequest 生成导出文本
type ExportBuildRequest struct {
	IssueID int64  `json:"issueId" form:"issueId" binding:"required,gte=1"`
	Format  string `json:"format" form:"format" binding:"omitempty,oneof=txt md" example:"txt"` // txt by default // 默认 txt
}

// ImageGenerateRequest Request parameters for generating a cover image from a section
// 根据章节生成配图
type ImageGenerateRequest struct {
	IssueID   int64 `json:"issueId" form:"issueId" binding:"required,gte=1"`
	SectionID int64 `json:"sectionId" form:"sectionId" binding:"required,gte=1"`
}

// ArchiveSearchRequest 历史期刊检索
type ArchiveSearchRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	URL         string `json:"url" form:"url"`
}

// DiscoveryCardsRequest Request parameters for the discovery feed
// 选题卡片请求参数
type DiscoveryCardsRequest struct {
	Refresh bool   `json:"refresh" form:"refresh"` // Bypass the cached cards // 跳过缓存
	Topic   string `json:"topic" form:"topic"`     // Optional topic filter // 可选主题过滤
}

// DiscoveryAddRequest 将选题卡片加入期刊
type DiscoveryAddRequest struct {
	IssueID int64  `json:"issueId" form:"issueId" binding:"required,gte=1"`
	URL     string `json:"url" form:"url" binding:"required,url"`
}
