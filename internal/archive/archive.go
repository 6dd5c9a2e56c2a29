// Package archive searches past Snapshot editions for sections related to a new story.
// The corpus is a plain-text dump of earlier issues, parsed once and cached.
//
// Package archive 检索历史期刊中与新文章相关的章节，语料只解析一次并缓存
package archive

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pulse-beyond/pulse-beyond/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	issueMarker    = "Weekly Snapshot - "
	whyMarker      = "↳ Why it matters"
	thoughtsMarker = "↳ My thoughts on it"
	eventsMarker   = "To Keep An Eye On"
	readMoreMarker = "You can read more"

	fieldCap       = 500
	excerptCap     = 300
	contextCap     = 3000
	minScore       = 0.15
	topN           = 3
	topicIssueCap  = 30
	contextHeading = "RELEVANT PAST SNAPSHOT EDITIONS (for internal context only, do NOT mention these editions explicitly):\n\n"
	topicHeading   = "RECENT SNAPSHOT TOPICS (last 30 issues):\n"
)

var (
	pageBreak = regexp.MustCompile(`----+Page \(\d+\) Break----+`)
	nonWord   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Section 历史章节
type Section struct {
	IssueDate    string `json:"issueDate"`
	Title        string `json:"title"`
	WhyItMatters string `json:"whyItMatters"`
	MyThoughts   string `json:"myThoughts"`
}

// Issue 历史期刊
type Issue struct {
	Date     string    `json:"date"`
	Sections []Section `json:"sections"`
	Events   string    `json:"events"`
}

// Match 检索命中
type Match struct {
	Section Section `json:"section"`
	Score   float64 `json:"score"`
}

// Archive loads the corpus lazily; a missing or unreadable file yields an empty archive
// Archive 懒加载语料，文件缺失或无法读取时视为空
type Archive struct {
	path   string
	logger *zap.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	loaded bool
	issues []Issue
}

// New 创建 Archive
func New(path string, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{path: path, logger: logger}
}

// Issues 返回解析后的期刊，首次调用时读取文件
func (a *Archive) Issues(ctx context.Context) []Issue {
	a.mu.RLock()
	if a.loaded {
		issues := a.issues
		a.mu.RUnlock()
		return issues
	}
	a.mu.RUnlock()

	v, _, _ := a.group.Do("load", func() (any, error) {
		issues := a.load()
		a.mu.Lock()
		a.issues, a.loaded = issues, true
		a.mu.Unlock()
		return issues, nil
	})
	return v.([]Issue)
}

func (a *Archive) load() []Issue {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			a.logger.Warn("archive file not found", zap.String("path", a.path))
		} else {
			a.logger.Warn("archive file unreadable", zap.String("path", a.path), zap.Error(errors.WithStack(err)))
		}
		return nil
	}

	issues := Parse(string(data))
	if len(issues) == 0 {
		a.logger.Warn("archive file contains no sections", zap.String("path", a.path))
	} else {
		a.logger.Info("archive loaded", zap.String("path", a.path), zap.Int("issues", len(issues)))
	}
	return issues
}

// Parse splits the corpus into issues and sections
// Parse 将语料切分为期刊与章节
func Parse(text string) []Issue {
	var issues []Issue
	for _, chunk := range splitIssues(text) {
		if !strings.HasPrefix(chunk, issueMarker) {
			continue
		}
		line, ok := firstLine(strings.TrimPrefix(chunk, issueMarker))
		if !ok || line == "" {
			continue
		}
		date := strings.TrimSpace(line)
		cleaned := pageBreak.ReplaceAllString(chunk, "")

		whys := indexAll(cleaned, whyMarker)
		thoughts := indexAll(cleaned, thoughtsMarker)
		eventsPos := strings.Index(cleaned, eventsMarker)
		readMorePos := strings.Index(cleaned, readMoreMarker)

		var sections []Section
		for i, whyStart := range whys {
			if i >= len(thoughts) {
				continue
			}
			thoughtStart := thoughts[i]

			from := 0
			if i > 0 {
				from = thoughts[i-1]
			}
			title := "Untitled"
			if from < whyStart {
				titleLines := strings.Split(strings.TrimSpace(cleaned[from:whyStart]), "\n")
				if t := strings.TrimSpace(titleLines[len(titleLines)-1]); t != "" {
					title = t
				}
			}

			why := ""
			if whyStart+len(whyMarker) <= thoughtStart {
				why = strings.TrimSpace(cleaned[whyStart+len(whyMarker) : thoughtStart])
			}

			boundary := len(cleaned)
			switch {
			case i+1 < len(whys):
				boundary = whys[i+1]
			case eventsPos > -1:
				boundary = eventsPos
			}
			thought := ""
			if start := thoughtStart + len(thoughtsMarker); start <= boundary {
				thought = strings.TrimSpace(cleaned[start:boundary])
			}

			sections = append(sections, Section{
				IssueDate:    date,
				Title:        title,
				WhyItMatters: util.Excerpt(why, fieldCap),
				MyThoughts:   util.Excerpt(thought, fieldCap),
			})
		}

		events := ""
		if eventsPos > -1 {
			end := len(cleaned)
			if readMorePos > -1 {
				end = readMorePos
			}
			if start := eventsPos + len(eventsMarker); start <= end {
				events = strings.TrimSpace(cleaned[start:end])
			}
		}

		if len(sections) > 0 {
			issues = append(issues, Issue{Date: date, Sections: sections, Events: events})
		}
	}
	return issues
}

// splitIssues splits before every issue marker, keeping the marker with its chunk
func splitIssues(text string) []string {
	starts := indexAll(text, issueMarker)
	if len(starts) == 0 {
		return []string{text}
	}
	chunks := make([]string, 0, len(starts)+1)
	if starts[0] > 0 {
		chunks = append(chunks, text[:starts[0]])
	}
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

// firstLine returns the text before the first line break; ok is false when there is none
func firstLine(s string) (string, bool) {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 {
		return "", false
	}
	return s[:i], true
}

func indexAll(s, sub string) []int {
	var out []int
	offset := 0
	for {
		i := strings.Index(s[offset:], sub)
		if i < 0 {
			return out
		}
		out = append(out, offset+i)
		offset += i + len(sub)
	}
}

// Keywords lowercases the text, drops punctuation and keeps unique words longer than three letters that are not stopwords
// Keywords 提取关键词：小写、去标点、长度大于 3 且非停用词，去重保序
func Keywords(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Rank scores every section against the keywords and returns the top matches above the threshold
// Rank 计算章节得分，返回超过阈值的前 3 条
func Rank(issues []Issue, keywords []string) []Match {
	if len(keywords) == 0 {
		return nil
	}
	var matches []Match
	for _, issue := range issues {
		for _, s := range issue.Sections {
			text := strings.ToLower(s.Title + " " + s.WhyItMatters + " " + s.MyThoughts)
			title := strings.ToLower(s.Title)
			score := 0
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					score++
					if strings.Contains(title, kw) {
						score += 2
					}
				}
			}
			normalized := float64(score) / float64(len(keywords))
			if normalized > minScore {
				matches = append(matches, Match{Section: s, Score: normalized})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// Search returns a prompt context block of related past sections, or "" when nothing relates
// Search 返回相关历史章节的提示词上下文，无结果时返回空字符串
func (a *Archive) Search(ctx context.Context, title, description, url string) string {
	issues := a.Issues(ctx)
	if len(issues) == 0 {
		return ""
	}
	matches := Rank(issues, Keywords(strings.Join([]string{title, description, url}, " ")))
	if len(matches) == 0 {
		return ""
	}
	return FormatContext(matches)
}

// FormatContext 渲染检索结果，总长度上限 3000 字符
func FormatContext(matches []Match) string {
	var b strings.Builder
	b.WriteString(contextHeading)
	for _, m := range matches {
		b.WriteString("--- " + m.Section.IssueDate + ": \"" + m.Section.Title + "\" ---\n")
		b.WriteString("Why it matters: " + util.Excerpt(m.Section.WhyItMatters, excerptCap) + "...\n")
		b.WriteString("My thoughts: " + util.Excerpt(m.Section.MyThoughts, excerptCap) + "...\n\n")
	}
	out := b.String()
	if len([]rune(out)) > contextCap {
		out = util.Excerpt(out, contextCap) + "\n[...truncated]"
	}
	return out
}

// TopicIndex lists the section titles of the first 30 archived issues
// TopicIndex 列出前 30 期的章节标题
func (a *Archive) TopicIndex(ctx context.Context) string {
	issues := a.Issues(ctx)
	if len(issues) == 0 {
		return ""
	}
	if len(issues) > topicIssueCap {
		issues = issues[:topicIssueCap]
	}
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		titles := make([]string, 0, len(issue.Sections))
		for _, s := range issue.Sections {
			titles = append(titles, `"`+s.Title+`"`)
		}
		lines = append(lines, issue.Date+": "+strings.Join(titles, ", "))
	}
	return topicHeading + strings.Join(lines, "\n")
}
