package ai

import (
	"embed"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(promptFS, "prompts/*.tmpl"))

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", errors.Wrapf(err, "render prompt %s", name)
	}
	return b.String(), nil
}

// SystemPrompt renders the ghostwriter style profile for author
// SystemPrompt 渲染写作风格系统提示词
func SystemPrompt(author string) string {
	s, err := render("system.tmpl", struct{ Author string }{author})
	if err != nil {
		panic(err)
	}
	return s
}

type sectionPromptData struct {
	SectionInput
	Author string
}

// SectionPrompt 章节生成用户提示词
func SectionPrompt(author string, in SectionInput) (string, error) {
	return render("section.tmpl", sectionPromptData{SectionInput: in, Author: author})
}

// EventDescriptionPrompt 事件描述提示词
func EventDescriptionPrompt(in EventInput) (string, error) {
	return render("event_description.tmpl", in)
}

type eventsPromptData struct {
	EventsWindow
	Author  string
	Results []search.Result
}

// UpcomingEventsPrompt 仅依赖模型知识的事件提示词
func UpcomingEventsPrompt(author string, w EventsWindow) (string, error) {
	return render("upcoming_events.tmpl", eventsPromptData{EventsWindow: w, Author: author})
}

// SearchEventsPrompt 基于搜索结果的事件提示词
func SearchEventsPrompt(author string, w EventsWindow, results []search.Result) (string, error) {
	return render("search_events.tmpl", eventsPromptData{EventsWindow: w, Author: author, Results: results})
}

// ImageConceptPrompt 配图概念提示词
func ImageConceptPrompt(sectionText string) (string, error) {
	return render("image_concept.tmpl", struct{ SectionText string }{sectionText})
}

// EditorialDNA returns the topic scope and editorial filter used for story discovery
// EditorialDNA 选题范围与编辑标准
func EditorialDNA() string {
	s, err := render("editorial_dna.tmpl", nil)
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(s)
}

// DiscoveryCandidate 选题候选
type DiscoveryCandidate struct {
	Title     string
	Source    string
	URL       string
	Published string
	Summary   string
}

// DiscoveryInput 选题提示词输入
type DiscoveryInput struct {
	Today      string
	Start      string
	End        string
	Candidates []DiscoveryCandidate
}

// DiscoveryPrompt 选题卡片提示词
func DiscoveryPrompt(author string, in DiscoveryInput) (string, error) {
	return render("discovery.tmpl", struct {
		DiscoveryInput
		Author       string
		EditorialDNA string
	}{in, author, EditorialDNA()})
}
