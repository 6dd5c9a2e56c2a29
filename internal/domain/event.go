package domain

import "time"

// EventItem "To Keep an Eye On" 日历事件
type EventItem struct {
	ID          int64
	IssueID     int64
	Title       string
	Date        string // free text, e.g. "Feb 17, 2025"
	Location    string
	Description string
	SourceURL   *string
	Included    bool
	Order       int
	ShortURL    *string
	CreatedAt   time.Time
}

func (e *EventItem) HasSource() bool {
	return (e.SourceURL != nil && *e.SourceURL != "") || (e.ShortURL != nil && *e.ShortURL != "")
}
