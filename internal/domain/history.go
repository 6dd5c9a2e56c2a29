package domain

import "time"

const (
	ExportFormatTxt = "txt"
	ExportFormatMd  = "md"
)

// Export 导出记录，只追加
type Export struct {
	ID        int64
	IssueID   int64
	Format    string
	Content   string
	CreatedAt time.Time
}

// GeneratedImage 配图记录，只追加
type GeneratedImage struct {
	ID        int64
	IssueID   int64
	SectionID int64
	Prompt    string
	ImageData string // base64
	MimeType  string
	CreatedAt time.Time
}
