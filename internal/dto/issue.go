// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// IssueCreateRequest Request parameters for creating an issue
// 创建期刊的请求参数
type IssueCreateRequest struct {
	Title       string `json:"title" form:"title" example:"Snapshot - Feb 8, 2026"` // Issue title, defaults from the publish date // 期刊标题，缺省按发布日期生成
	PublishDate string `json:"publishDate" form:"publishDate" example:"2026-02-08"` // Publish date (YYYY-MM-DD or RFC3339), defaults to next Sunday // 发布日期，缺省为下一个周日
}

// IssueGetRequest Request parameters for addressing one issue
// 指定期刊的请求参数
type IssueGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,gte=1" example:"1"` // Issue ID // 期刊 ID
}

// IssueUpdateRequest Request parameters for updating title and publish date
// 更新期刊的请求参数
type IssueUpdateRequest struct {
	ID          int64  `json:"id" form:"id" binding:"required,gte=1" example:"1"`
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	PublishDate string `json:"publishDate" form:"publishDate"` // empty clears the date // 为空时清除发布日期
}

// IssueStepRequest Request parameters for moving an issue to a workflow step
// 设置期刊步骤的请求参数
type IssueStepRequest struct {
	ID   int64  `json:"id" form:"id" binding:"required,gte=1"`
	Step string `json:"step" form:"step" binding:"required,oneof=links select generate events shorten export image" example:"select"`
}

// IssueListRequest 期刊列表请求参数
type IssueListRequest struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"pageSize" form:"pageSize"`
}
