package domain

import (
	"strings"
	"time"
)

const (
	// SectionTypeMain 正文章节
	SectionTypeMain = "main"
	// CustomTitleSentinel marks that CustomTitle replaces the title options
	// CustomTitleSentinel 表示使用自定义标题
	CustomTitleSentinel = "__custom__"
)

// SectionContent is the drafted body of a section; the edited overlay also carries the title choice
// SectionContent 章节内容，编辑层额外携带标题选择
type SectionContent struct {
	TitleOptions  []string `json:"titleOptions"`
	WhyItMatters  string   `json:"whyItMatters"`
	MyThoughts    string   `json:"myThoughts"`
	SelectedTitle string   `json:"selectedTitle,omitempty"`
	CustomTitle   string   `json:"customTitle,omitempty"`
}

// ResolveTitle applies the title choice: custom sentinel, then selected title, then the first option
// ResolveTitle 依次使用自定义标题、已选标题、第一个候选标题
func (c SectionContent) ResolveTitle() string {
	first := ""
	if len(c.TitleOptions) > 0 {
		first = c.TitleOptions[0]
	}
	if c.SelectedTitle == CustomTitleSentinel {
		if c.CustomTitle != "" {
			return c.CustomTitle
		}
		return first
	}
	if c.SelectedTitle != "" {
		return c.SelectedTitle
	}
	return first
}

// Render 渲染为纯文本，用于差异对比与配图概念生成
func (c SectionContent) Render() string {
	var b strings.Builder
	b.WriteString(c.ResolveTitle())
	b.WriteString("\n\nWhy it matters:\n")
	b.WriteString(c.WhyItMatters)
	b.WriteString("\n\nMy thoughts on it:\n")
	b.WriteString(c.MyThoughts)
	return b.String()
}

// Clone 深拷贝
func (c SectionContent) Clone() SectionContent {
	c.TitleOptions = append([]string{}, c.TitleOptions...)
	return c
}

// GeneratedSection AI 生成的章节；Content 不可变，EditedContent 为用户编辑层
type GeneratedSection struct {
	ID            int64
	IssueID       int64
	LinkItemID    *int64
	SectionType   string
	Content       SectionContent
	EditedContent *SectionContent
	Order         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Effective returns the edited overlay when present, otherwise the original content
// Effective 有编辑层时返回编辑层，否则返回原始内容
func (s *GeneratedSection) Effective() SectionContent {
	if s.EditedContent != nil {
		return s.EditedContent.Clone()
	}
	return s.Content.Clone()
}
