package service

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/util"
)

// dnaTopic is one editorial topic with the keywords that signal it, highest priority first
type dnaTopic struct {
	name     string
	keywords []string
}

var dnaTopics = []dnaTopic{
	{"AI", []string{"artificial intelligence", "ai", "llm", "openai", "anthropic", "deepmind", "chatgpt", "gemini", "machine learning", "foundation model", "agi"}},
	{"Robotics", []string{"robot", "robots", "robotics", "humanoid", "automation", "drone", "drones", "evtol", "brain computer"}},
	{"Semiconductors", []string{"chip", "chips", "semiconductor", "semiconductors", "tsmc", "nvidia", "asml", "wafer", "quantum"}},
	{"Space", []string{"space", "spacex", "starlink", "satellite", "satellites", "rocket", "orbit", "lunar", "moon", "mars", "nasa"}},
	{"Biotech", []string{"biotech", "crispr", "gene", "genome", "genomics", "longevity", "vaccine", "drug discovery", "biosecurity"}},
	{"Energy", []string{"energy", "nuclear", "fusion", "fission", "solar", "battery", "batteries", "electric vehicle", "ev", "lithium", "carbon capture", "grid", "critical minerals"}},
	{"Geopolitics", []string{"china", "beijing", "taiwan", "india", "tariff", "tariffs", "sanctions", "brics", "export controls", "geopolitics", "nato", "eu"}},
	{"Finance", []string{"venture", "funding", "raises", "ipo", "sovereign wealth", "startup", "startups", "investment"}},
	{"Climate", []string{"climate", "rare earth", "water", "drought", "biodiversity", "food security", "emissions"}},
	{"Digital Infrastructure", []string{"5g", "6g", "cyber", "cybersecurity", "cloud", "data center", "data centers", "crypto", "cbdc", "stablecoin"}},
}

// 与编辑标准不符的内容
var excludedPhrases = []string{
	"stock price", "shares rose", "shares fell", "earnings call", "quarterly earnings",
	"deal of the day", "best deals", "review:", "hands-on", "celebrity",
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeForMatch lowercases and pads with spaces so keywords match on word boundaries
func normalizeForMatch(s string) string {
	return " " + strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(s), " ")) + " "
}

type topicScore struct {
	topic   string
	score   float64
	matched []string
}

// scoreCandidate rates a story against the editorial topics. Title hits weigh double,
// earlier topics weigh more. A zero score means the story is out of scope.
// scoreCandidate 按选题范围为候选打分，0 分表示不相关
func scoreCandidate(title, summary string) topicScore {
	lower := strings.ToLower(title + " " + summary)
	for _, p := range excludedPhrases {
		if strings.Contains(lower, p) {
			return topicScore{}
		}
	}

	t, s := normalizeForMatch(title), normalizeForMatch(summary)
	var best topicScore
	total := 0.0
	for i, topic := range dnaTopics {
		weight := 1 + float64(len(dnaTopics)-i)/float64(len(dnaTopics))
		hits := 0.0
		var matched []string
		for _, kw := range topic.keywords {
			pad := " " + kw + " "
			hit := 0.0
			if strings.Contains(t, pad) {
				hit += 2
			}
			if strings.Contains(s, pad) {
				hit++
			}
			if hit > 0 {
				matched = append(matched, kw)
				hits += hit
			}
		}
		if hits == 0 {
			continue
		}
		total += hits * weight
		if hits*weight > best.score {
			best = topicScore{topic: topic.name, score: hits * weight, matched: matched}
		}
	}
	best.score = total
	return best
}

// candidate 选题候选（订阅源或搜索结果）
type candidate struct {
	Title     string
	URL       string
	Source    string
	Summary   string
	Published time.Time
	// fromSearch 搜索结果不一定带发布日期
	fromSearch bool
	rank       topicScore
}

// rankCandidates dedupes by URL, keeps stories inside [start, end], drops out-of-scope ones,
// and orders by score then recency
// rankCandidates 去重、按窗口过滤、打分并排序
func rankCandidates(in []candidate, start, end time.Time, limit int) []candidate {
	seen := make(map[string]struct{}, len(in))
	out := make([]candidate, 0, len(in))
	for _, c := range in {
		c.URL = strings.TrimSpace(c.URL)
		if c.URL == "" || strings.TrimSpace(c.Title) == "" {
			continue
		}
		key := strings.TrimSuffix(c.URL, "/")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if c.Published.IsZero() {
			if !c.fromSearch {
				continue
			}
		} else if c.Published.Before(start) || c.Published.After(end) {
			continue
		}
		c.rank = scoreCandidate(c.Title, c.Summary)
		if c.rank.score == 0 {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rank.score != out[j].rank.score {
			return out[i].rank.score > out[j].rank.score
		}
		return out[i].Published.After(out[j].Published)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// parsePublished 解析搜索结果中的发布时间，无法识别时返回零值
func parsePublished(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// hostSource 以域名作为来源名
func hostSource(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// relativeAge formats a publish time as "Today", "1 day ago" or "N days ago"
func relativeAge(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}
	days := int(math.Round(util.GetZeroTime(now).Sub(util.GetZeroTime(published.In(now.Location()))).Hours() / 24))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	}
	return strconv.Itoa(days) + " days ago"
}
