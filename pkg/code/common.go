package code

import "net/http"

var (
	Success        = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate  = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate  = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete  = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessNoMatch = NewSuss(5, lang{en: "No matching entries", zh_cn: "没有匹配的条目"})

	Failed               = NewError(0, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal  = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}).withHTTPStatus(http.StatusInternalServerError)
	ErrorNotFoundAPI     = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorInvalidParams   = NewError(400, lang{en: "Invalid parameters", zh_cn: "参数错误"}).withHTTPStatus(http.StatusBadRequest)
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"}).withHTTPStatus(http.StatusTooManyRequests)
	ErrorDBQuery         = NewError(501, lang{en: "Database query failed", zh_cn: "数据库查询失败"}).withHTTPStatus(http.StatusInternalServerError)
	ErrorRequestTimeout  = NewError(504, lang{en: "Request timeout", zh_cn: "请求超时"}).withHTTPStatus(http.StatusGatewayTimeout)

	// Issue workflow
	// 期刊工作流
	ErrorIssueNotFound   = NewError(1001, lang{en: "Issue not found", zh_cn: "期刊不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorStepNotAllowed  = NewError(1002, lang{en: "Step is not reachable for this issue", zh_cn: "当前期刊无法进入该步骤"}).withHTTPStatus(http.StatusConflict)
	ErrorSelectCount     = NewError(1003, lang{en: "Select exactly 3 links", zh_cn: "请恰好选择 3 条链接"}).withHTTPStatus(http.StatusBadRequest)
	ErrorNoLinksSelected = NewError(1004, lang{en: "No links selected", zh_cn: "没有选中的链接"}).withHTTPStatus(http.StatusBadRequest)
	ErrorNoPublishDate   = NewError(1005, lang{en: "Issue has no publish date", zh_cn: "期刊没有发布日期"}).withHTTPStatus(http.StatusBadRequest)

	// Links, sections, events
	// 链接、章节、事件
	ErrorLinkNotFound    = NewError(1101, lang{en: "Link not found", zh_cn: "链接不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorLinkExists      = NewError(1102, lang{en: "Link already added to this issue", zh_cn: "该链接已存在于本期"}).withHTTPStatus(http.StatusConflict)
	ErrorSectionNotFound = NewError(1103, lang{en: "Section not found", zh_cn: "章节不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorEventNotFound   = NewError(1104, lang{en: "Event not found", zh_cn: "事件不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorAudioTooLarge   = NewError(1105, lang{en: "Audio file is too large", zh_cn: "音频文件过大"}).withHTTPStatus(http.StatusRequestEntityTooLarge)
	ErrorShortenFailed   = NewError(1106, lang{en: "URL shortening failed", zh_cn: "短链生成失败"}).withHTTPStatus(http.StatusBadGateway)
	ErrorFetchFailed     = NewError(1107, lang{en: "Fetching remote content failed", zh_cn: "获取远程内容失败"}).withHTTPStatus(http.StatusBadGateway)

	// AI and media
	// AI 与媒体
	ErrorAIConfigMissing    = NewError(1201, lang{en: "AI provider is not configured", zh_cn: "AI 服务未配置"}).withHTTPStatus(http.StatusServiceUnavailable)
	ErrorAIGenerate         = NewError(1202, lang{en: "AI generation failed", zh_cn: "AI 生成失败"}).withHTTPStatus(http.StatusBadGateway)
	ErrorImageGenerate      = NewError(1203, lang{en: "Image generation failed", zh_cn: "图片生成失败"}).withHTTPStatus(http.StatusBadGateway)
	ErrorTranscribe         = NewError(1204, lang{en: "Audio transcription failed", zh_cn: "音频转写失败"}).withHTTPStatus(http.StatusBadGateway)
	ErrorInvalidStorageType = NewError(1205, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"}).withHTTPStatus(http.StatusBadRequest)
	ErrorStorageSave        = NewError(1206, lang{en: "Saving file to storage failed", zh_cn: "文件保存失败"}).withHTTPStatus(http.StatusInternalServerError)
)
