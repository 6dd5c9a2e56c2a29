package dto

// LinkAddRequest Request parameters for adding a source link to an issue
// 添加候选链接的请求参数
type LinkAddRequest struct {
	IssueID  int64  `json:"issueId" form:"issueId" binding:"required,gte=1" example:"1"`
	URL      string `json:"url" form:"url" binding:"required,url" example:"https://www.nature.com/articles/x"`
	ToneNote string `json:"toneNote" form:"toneNote"` // Optional tone hint for the draft // 可选的语气备注
}

// LinkGetRequest 指定链接的请求参数
type LinkGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,gte=1"`
}

// LinkToneRequest 更新语气备注
type LinkToneRequest struct {
	ID       int64  `json:"id" form:"id" binding:"required,gte=1"`
	ToneNote string `json:"toneNote" form:"toneNote" binding:"max=2000"`
}

// LinkToggleRequest Request parameters for flipping a link's selection
// 切换链接选中状态
type LinkToggleRequest struct {
	ID       int64 `json:"id" form:"id" binding:"required,gte=1"`
	Selected *bool `json:"selected" form:"selected" binding:"required"`
}

// LinkSelectRequest Request parameters for choosing the final links
// 选择最终链接的请求参数
type LinkSelectRequest struct {
	IssueID int64   `json:"issueId" form:"issueId" binding:"required,gte=1"`
	IDs     []int64 `json:"ids" form:"ids"` // ignored when the issue has three links or fewer // 链接不超过 3 条时忽略
}

// LinkAudioRequest 上传语音备忘，文件字段为 audio
type LinkAudioRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,gte=1"`
}

// IssueScopedRequest Request parameters for operations on a whole issue
// 以期刊为范围的操作请求参数
type IssueScopedRequest struct {
	IssueID int64 `json:"issueId" form:"issueId" binding:"required,gte=1" example:"1"`
}
