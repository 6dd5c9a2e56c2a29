package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

// FeedItem 订阅源条目
type FeedItem struct {
	Title       string
	URL         string
	Source      string
	Summary     string
	PublishedAt time.Time
}

// FeedReader RSS/Atom 订阅源读取
type FeedReader struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFeedReader 创建订阅源读取器
func NewFeedReader(cfg *Config) *FeedReader {
	d := timeout(cfg.FeedTimeout, 20*time.Second)
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient(d)
	parser.UserAgent = cfg.UserAgent
	return &FeedReader{parser: parser, timeout: d}
}

// Fetch reads at most maxCount items of one feed; items without a link are skipped
// Fetch 读取订阅源中最多 maxCount 条
func (r *FeedReader) Fetch(ctx context.Context, feedURL string, maxCount int) ([]FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch feed %s", feedURL)
	}

	source := strings.TrimSpace(feed.Title)
	items := make([]FeedItem, 0, min(len(feed.Items), maxCount))
	for _, it := range feed.Items {
		if len(items) >= maxCount {
			break
		}
		if it.Link == "" {
			continue
		}

		var published time.Time
		if it.PublishedParsed != nil {
			published = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			published = *it.UpdatedParsed
		}

		summary := it.Description
		if summary == "" {
			summary = it.Content
		}

		items = append(items, FeedItem{
			Title:       clean(it.Title),
			URL:         strings.TrimSpace(it.Link),
			Source:      source,
			Summary:     clean(stripTags(summary)),
			PublishedAt: published,
		})
	}
	return items, nil
}

// stripTags 去掉摘要中的 HTML 标签
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return spacedText(doc.Selection)
}
