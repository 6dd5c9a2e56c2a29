// Package export renders an issue into the plain-text newsletter layout.
//
// Package export 将期刊渲染为纯文本简报
package export

import (
	"strings"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
)

const (
	sectionMarker   = "👉 "
	whyHeading      = "↳ Why it matters"
	thoughtsHeading = "↳ My thoughts on it"
	eventsHeading   = "👉 To Keep an Eye On"
	readMoreLine    = "You can read more about each topic by accessing the links below."
	headerPrefix    = "Weekly Snapshot - "
)

// Input is everything Build reads. Events must already be filtered to included ones and
// sections to main ones; both are expected in ascending order.
//
// Input 渲染所需数据：已纳入的事件与正文章节，均按 order 升序
type Input struct {
	Issue    *domain.Issue
	Events   []*domain.EventItem
	Sections []*domain.GeneratedSection
	// Links resolves a section's LinkItemID; it may hold every link of the issue
	Links []*domain.LinkItem
}

type linkGroup struct {
	title string
	urls  []string
}

// Build 生成导出文本，结果只依赖输入
func Build(in Input) string {
	lines := make([]string, 0, 8+len(in.Sections)*6+len(in.Events))

	header := in.Issue.Title
	if date, ok := in.Issue.HeaderDate(); ok {
		header = headerPrefix + date
	}
	lines = append(lines, header, "")

	byID := make(map[int64]*domain.LinkItem, len(in.Links))
	for _, l := range in.Links {
		byID[l.ID] = l
	}

	var groups []linkGroup
	for _, s := range in.Sections {
		content := s.Effective()
		title := content.ResolveTitle()

		lines = append(lines,
			sectionMarker+title,
			whyHeading,
			content.WhyItMatters,
			thoughtsHeading,
			content.MyThoughts,
			"",
		)

		if s.LinkItemID == nil {
			continue
		}
		if link, ok := byID[*s.LinkItemID]; ok {
			groups = append(groups, linkGroup{title: title, urls: []string{link.DisplayURL()}})
		}
	}

	if len(in.Events) > 0 {
		lines = append(lines, eventsHeading, "")
		for _, e := range in.Events {
			lines = append(lines, eventLine(e))
		}
		lines = append(lines, "")
	}

	if len(groups) > 0 || anyEventSource(in.Events) {
		lines = append(lines, "", readMoreLine)
		for _, g := range groups {
			lines = append(lines, g.title, "")
			for _, u := range g.urls {
				lines = append(lines, "* "+u)
			}
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// eventLine 格式："* 标题 (日期, 地点) – 描述"
func eventLine(e *domain.EventItem) string {
	var b strings.Builder
	b.WriteString("* ")
	b.WriteString(e.Title)
	b.WriteString(" (")
	b.WriteString(e.Date)
	if e.Location != "" {
		b.WriteString(", ")
		b.WriteString(e.Location)
	}
	b.WriteString(") – ")
	b.WriteString(e.Description)
	return b.String()
}

func anyEventSource(events []*domain.EventItem) bool {
	for _, e := range events {
		if e.HasSource() {
			return true
		}
	}
	return false
}
