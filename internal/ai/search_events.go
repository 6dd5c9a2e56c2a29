package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"
	"go.uber.org/zap"
)

const searchResultsPerQuery = 8

// eventQueries are run for every window; results are merged by URL
var eventQueries = []string{
	"major geopolitical and economic events %s to %s",
	"elections summits central bank decisions %s to %s",
	"technology conferences space launches %s to %s",
}

// searchEventsProvider grounds upcoming events in live search results and falls back to the
// wrapped provider when search or parsing fails
// searchEventsProvider 先基于实时搜索生成事件，失败时回退到被包装的 Provider
type searchEventsProvider struct {
	*llmProvider
	searcher search.Searcher
	timeout  time.Duration
}

var _ Provider = (*searchEventsProvider)(nil)

func newSearchEventsProvider(base *llmProvider, searcher search.Searcher, timeout time.Duration) *searchEventsProvider {
	return &searchEventsProvider{llmProvider: base, searcher: searcher, timeout: timeout}
}

func (p *searchEventsProvider) GenerateUpcomingEvents(ctx context.Context, w EventsWindow) ([]UpcomingEvent, error) {
	events, err := p.searchEvents(ctx, w)
	if err == nil && len(events) > 0 {
		return events, nil
	}
	p.logger.Warn("search-backed events failed, falling back to model knowledge",
		zap.String(logger.FieldProvider, p.name),
		zap.Error(err))
	return p.llmProvider.GenerateUpcomingEvents(ctx, w)
}

func (p *searchEventsProvider) searchEvents(ctx context.Context, w EventsWindow) ([]UpcomingEvent, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	results := p.gather(ctx, w)
	if len(results) == 0 {
		return nil, search.ErrNoResults
	}

	prompt, err := SearchEventsPrompt(p.author, w, results)
	if err != nil {
		return nil, err
	}
	raw, err := p.complete(ctx, p.events, prompt)
	if err != nil {
		return nil, err
	}
	events, err := decodeEvents(raw)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(results))
	for _, r := range results {
		known[r.URL] = struct{}{}
	}
	for i := range events {
		if _, ok := known[events[i].SourceURL]; !ok {
			events[i].SourceURL = ""
		}
	}
	return events, nil
}

// gather runs every event query and merges the results, skipping failed queries
func (p *searchEventsProvider) gather(ctx context.Context, w EventsWindow) []search.Result {
	req := search.Request{
		Topic:      "news",
		MaxResults: searchResultsPerQuery,
	}
	if t, err := time.Parse(util.ShortDateLayout, w.WeekStart); err == nil {
		req.StartDate = t.AddDate(0, 0, -14).Format(time.DateOnly)
	}

	seen := make(map[string]struct{})
	var out []search.Result
	for _, q := range eventQueries {
		req.Query = fmt.Sprintf(q, w.WeekStart, w.WeekEnd)
		resp, err := p.searcher.Search(ctx, &req)
		if err != nil {
			p.logger.Warn("event search query failed",
				zap.String("query", req.Query),
				zap.Error(err))
			continue
		}
		for _, r := range resp.Results {
			if r.URL == "" {
				continue
			}
			if _, ok := seen[r.URL]; ok {
				continue
			}
			seen[r.URL] = struct{}{}
			r.Content = util.Excerpt(r.Content, 600)
			out = append(out, r)
		}
	}
	return out
}
