// Package ai drafts newsletter content through a pluggable provider.
// Package ai 通过可替换的 Provider 生成周报内容
package ai

import (
	"context"
)

const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// SectionInput is everything known about a link when its section is drafted
// SectionInput 生成章节所需的链接信息
type SectionInput struct {
	URL             string
	MetaTitle       string
	MetaDescription string
	ToneNote        string
	AudioTranscript string
	// ArchiveContext 历史期刊检索结果，可为空
	ArchiveContext string
}

// Draft 章节草稿
type Draft struct {
	TitleOptions []string `json:"titleOptions"`
	WhyItMatters string   `json:"whyItMatters"`
	MyThoughts   string   `json:"myThoughts"`
}

// EventInput 事件描述生成输入
type EventInput struct {
	Title    string
	Date     string
	Location string
}

// EventsWindow is the week an issue covers, formatted "Jan 2, 2006"
// EventsWindow 期刊覆盖的一周
type EventsWindow struct {
	WeekStart string
	WeekEnd   string
	// CalendarContext 抓取到的日历文本，可为空
	CalendarContext string
}

// UpcomingEvent 候选事件
type UpcomingEvent struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	SourceURL   string `json:"sourceUrl,omitempty"`
}

// MaxUpcomingEvents 单次生成的事件上限
const MaxUpcomingEvents = 6

// Provider drafts sections and calendar events
// Provider 章节与事件生成策略
type Provider interface {
	Name() string
	GenerateSection(ctx context.Context, in SectionInput) (*Draft, error)
	GenerateEventDescription(ctx context.Context, in EventInput) (string, error)
	GenerateUpcomingEvents(ctx context.Context, window EventsWindow) ([]UpcomingEvent, error)
}

// EventFallbackDescription is used when describing an event fails
// EventFallbackDescription 事件描述生成失败时的兜底文本
func EventFallbackDescription(title string) string {
	return "Will " + title + " bring any surprises? Worth watching."
}

func capEvents(events []UpcomingEvent) []UpcomingEvent {
	if len(events) > MaxUpcomingEvents {
		return events[:MaxUpcomingEvents]
	}
	return events
}
