package logger

// 统一的日志字段命名常量
const (
	FieldTraceID  = "traceId"
	FieldIssueID  = "issueId"
	FieldLinkID   = "linkId"
	FieldEventID  = "eventId"
	FieldSection  = "section"
	FieldProvider = "provider"
	FieldAction   = "action"
	FieldURL      = "url"
	FieldDuration = "duration"
	FieldMethod   = "method"
	FieldError    = "error"
	FieldSize     = "size"
	FieldKey      = "key"
)
