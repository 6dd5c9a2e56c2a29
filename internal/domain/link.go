package domain

import "time"

// LinkItem 期刊候选链接
type LinkItem struct {
	ID              int64
	IssueID         int64
	URL             string
	MetaTitle       *string
	MetaDescription *string
	ToneNote        *string
	AudioPath       *string
	AudioTranscript *string
	Selected        bool
	ShortURL        *string
	Order           int
	CreatedAt       time.Time
}

func (l *LinkItem) HasShortURL() bool {
	return l.ShortURL != nil && *l.ShortURL != ""
}

// DisplayURL prefers the shortened form
// DisplayURL 优先返回短链
func (l *LinkItem) DisplayURL() string {
	if l.HasShortURL() {
		return *l.ShortURL
	}
	return l.URL
}

// Label 用于错误信息的链接名称：标题或 URL
func (l *LinkItem) Label() string {
	if l.MetaTitle != nil && *l.MetaTitle != "" {
		return *l.MetaTitle
	}
	return l.URL
}
