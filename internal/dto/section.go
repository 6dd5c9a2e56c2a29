package dto

// SectionGetRequest 指定章节
type SectionGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,gte=1"`
}

// SectionTitleRequest Request parameters for picking a section title.
// Title is one of the title options, or "__custom__" together with CustomTitle.
//
// SectionTitleRequest 选择章节标题；使用自定义标题时 title 为 "__custom__"
type SectionTitleRequest struct {
	ID          int64  `json:"id" form:"id" binding:"required,gte=1"`
	Title       string `json:"title" form:"title" binding:"required"`
	CustomTitle string `json:"customTitle" form:"customTitle" binding:"max=300"`
}

// SectionContentRequest Request parameters for saving an edited section
// 保存章节编辑稿
type SectionContentRequest struct {
	ID            int64    `json:"id" form:"id" binding:"required,gte=1"`
	TitleOptions  []string `json:"titleOptions" form:"titleOptions"`
	WhyItMatters  string   `json:"whyItMatters" form:"whyItMatters"`
	MyThoughts    string   `json:"myThoughts" form:"myThoughts"`
	SelectedTitle string   `json:"selectedTitle" form:"selectedTitle"`
	CustomTitle   string   `json:"customTitle" form:"customTitle"`
}
