package dto

// EventAddRequest Request parameters for adding a calendar event by hand
// 手动添加事件的请求参数
type EventAddRequest struct {
	IssueID     int64  `json:"issueId" form:"issueId" binding:"required,gte=1"`
	Title       string `json:"title" form:"title" binding:"required,max=300"`              // Event title // 事件标题
	Date        string `json:"date" form:"date" binding:"required" example:"Feb 17, 2026"` // Free text date // 日期（自由文本）
	Location    string `json:"location" form:"location"`
	Description string `json:"description" form:"description"` // Generated when empty // 为空时自动生成
	SourceURL   string `json:"sourceUrl" form:"sourceUrl" binding:"omitempty,url"`
}

// EventUpdateRequest Request parameters for a partial event update; nil fields stay unchanged
// 部分更新事件，nil 字段保持不变
type EventUpdateRequest struct {
	ID          int64   `json:"id" form:"id" binding:"required,gte=1"`
	Title       *string `json:"title" form:"title"`
	Date        *string `json:"date" form:"date"`
	Location    *string `json:"location" form:"location"`
	Description *string `json:"description" form:"description"`
	SourceURL   *string `json:"sourceUrl" form:"sourceUrl"`
}

// EventGetRequest 指定事件
type EventGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,gte=1"`
}
