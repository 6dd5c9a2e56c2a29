package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/internal/fetch"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeeds struct {
	items map[string][]fetch.FeedItem
	calls atomic.Int32
}

func (f *fakeFeeds) Fetch(_ context.Context, feedURL string, _ int) ([]fetch.FeedItem, error) {
	f.calls.Add(1)
	items, ok := f.items[feedURL]
	if !ok {
		return nil, errors.New("feed unavailable")
	}
	return items, nil
}

// gatedFeeds holds every fetch until release is closed
type gatedFeeds struct {
	*fakeFeeds
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedFeeds) Fetch(ctx context.Context, feedURL string, n int) ([]fetch.FeedItem, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.fakeFeeds.Fetch(ctx, feedURL, n)
}

type fakeSearcher struct {
	results []search.Result
	last    *search.Request
}

func (f *fakeSearcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	f.last = req
	return &search.Response{Results: f.results}, nil
}

type fakeCompleter struct {
	text string
	err  error
}

func (f fakeCompleter) Complete(context.Context, ai.Completion) (string, error) {
	return f.text, f.err
}

// discoveryNow is a Wednesday; the edition window runs Feb 1 to Feb 7
var discoveryNow = time.Date(2026, 2, 4, 12, 0, 0, 0, time.Local)

func discoveryFixture() (*fakeFeeds, *fakeSearcher, DiscoveryConfig) {
	published := time.Date(2026, 2, 3, 8, 0, 0, 0, time.Local)
	feeds := &fakeFeeds{items: map[string][]fetch.FeedItem{
		"https://feeds.example.com/tech": {
			{Title: "OpenAI ships a new model for chip design", URL: "https://news.example.com/openai", Source: "Tech Daily", Summary: "The release targets engineering teams.", PublishedAt: published},
			{Title: "Local bakery wins award", URL: "https://news.example.com/bakery", Source: "Tech Daily", Summary: "Croissants all round.", PublishedAt: published},
			{Title: "SpaceX launches another Starlink batch", URL: "https://news.example.com/starlink", Source: "Tech Daily", PublishedAt: time.Date(2026, 1, 20, 8, 0, 0, 0, time.Local)},
			{Title: "Nuclear startup raises funding", URL: "https://news.example.com/undated", Source: "Tech Daily"},
			{Title: "OpenAI ships a new model for chip design", URL: "https://news.example.com/openai/", Source: "Mirror", PublishedAt: published},
		},
	}}
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "China tightens export controls on rare earth", URL: "https://www.world.example.org/china", Content: "Beijing widened the list of restricted materials. Exporters need new licences."},
	}}
	cfg := DiscoveryConfig{
		Feeds:         []string{"https://feeds.example.com/tech", "https://feeds.example.com/broken"},
		FeedItems:     15,
		Queries:       []string{"geopolitics technology"},
		SearchResults: 8,
		MaxCandidates: 40,
		MaxCards:      15,
		CacheTTL:      "1h",
		Timeout:       "5s",
	}
	return feeds, searcher, cfg
}

func newTestDiscovery(feeds FeedSource, searcher search.Searcher, completer ai.Completer, links LinkService, cfg DiscoveryConfig) *discoveryService {
	svc := NewDiscoveryService(feeds, searcher, completer, links, cfg, "Roberto", nil).(*discoveryService)
	svc.now = func() time.Time { return discoveryNow }
	return svc
}

func cardURLs(cards []*DiscoveryCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.URL)
	}
	return out
}

func TestDiscoveryService_LocalFraming(t *testing.T) {
	feeds, searcher, cfg := discoveryFixture()
	svc := newTestDiscovery(feeds, searcher, nil, nil, cfg)

	cards, err := svc.FetchCards(context.Background(), &dto.DiscoveryCardsRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"https://news.example.com/openai", "https://www.world.example.org/china"}, cardURLs(cards))

	require.NotNil(t, searcher.last)
	assert.Equal(t, "news", searcher.last.Topic)
	assert.Equal(t, "2026-02-01", searcher.last.StartDate)
	assert.Equal(t, "2026-02-07", searcher.last.EndDate)

	for _, c := range cards {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Angle)
		assert.NotEmpty(t, c.WhyItMatters)
		assert.NotEmpty(t, c.TopicTags)
		switch c.URL {
		case "https://news.example.com/openai":
			assert.Equal(t, "AI", c.Topic)
			assert.Equal(t, "Tech Daily", c.Source)
			assert.Equal(t, "1 day ago", c.PublishedAt)
		case "https://www.world.example.org/china":
			assert.Equal(t, "Geopolitics", c.Topic)
			assert.Equal(t, "world.example.org", c.Source)
			assert.Empty(t, c.PublishedAt)
			assert.Len(t, c.KeyFacts, 2)
		}
	}

	filtered, err := svc.FetchCards(context.Background(), &dto.DiscoveryCardsRequest{Topic: "geopolitics"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.world.example.org/china"}, cardURLs(filtered))
}

func TestDiscoveryService_CachesUntilExpiry(t *testing.T) {
	feeds, searcher, cfg := discoveryFixture()
	svc := newTestDiscovery(feeds, searcher, nil, nil, cfg)
	ctx := context.Background()

	_, err := svc.FetchCards(ctx, &dto.DiscoveryCardsRequest{})
	require.NoError(t, err)
	_, err = svc.FetchCards(ctx, &dto.DiscoveryCardsRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, feeds.calls.Load(), "one fetch per configured feed")

	_, err = svc.FetchCards(ctx, &dto.DiscoveryCardsRequest{Refresh: true})
	require.NoError(t, err)
	assert.EqualValues(t, 4, feeds.calls.Load())

	svc.now = func() time.Time { return discoveryNow.Add(2 * time.Hour) }
	_, err = svc.FetchCards(ctx, &dto.DiscoveryCardsRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 6, feeds.calls.Load())
}

func TestDiscoveryService_RefreshSurvivesCancelledCaller(t *testing.T) {
	feeds, searcher, cfg := discoveryFixture()
	gated := &gatedFeeds{fakeFeeds: feeds, started: make(chan struct{}), release: make(chan struct{})}
	svc := newTestDiscovery(gated, searcher, nil, nil, cfg)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() { firstErr <- svc.Refresh(first) }()
	<-gated.started

	secondErr := make(chan error, 1)
	go func() { secondErr <- svc.Refresh(context.Background()) }()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(gated.release)
	require.NoError(t, <-secondErr)

	cards, fresh := svc.cached()
	assert.True(t, fresh)
	assert.Contains(t, cardURLs(cards), "https://news.example.com/openai")
}

func TestDiscoveryService_ModelFramingKeepsKnownURLs(t *testing.T) {
	feeds, searcher, cfg := discoveryFixture()
	completer := fakeCompleter{text: "```json\n" + `[
		{"id": "", "title": "The chip race moves into the model", "source": "", "url": "https://news.example.com/openai",
		 "publishedAt": "", "topic": "AI", "whyItMatters": "Design tools shape who builds chips.",
		 "angle": "Leverage shifts to whoever owns the tooling.", "keyFacts": ["New model"], "topicTags": ["AI", "Chips"]},
		{"id": "made-up", "title": "Invented story", "url": "https://elsewhere.example.com/fake", "topic": "Space"}
	]` + "\n```"}
	svc := newTestDiscovery(feeds, searcher, completer, nil, cfg)

	cards, err := svc.FetchCards(context.Background(), &dto.DiscoveryCardsRequest{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, "The chip race moves into the model", card.Title)
	assert.Equal(t, "Tech Daily", card.Source)
	assert.Equal(t, "1 day ago", card.PublishedAt)
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, []string{"AI", "Chips"}, card.TopicTags)
}

func TestDiscoveryService_ModelFailureFallsBack(t *testing.T) {
	feeds, searcher, cfg := discoveryFixture()
	for _, completer := range []ai.Completer{
		fakeCompleter{err: errors.New("rate limited")},
		fakeCompleter{text: "I could not find anything."},
		fakeCompleter{text: `[{"title": "Hallucinated", "url": "https://nowhere.example.com"}]`},
	} {
		svc := newTestDiscovery(feeds, searcher, completer, nil, cfg)
		cards, err := svc.FetchCards(context.Background(), &dto.DiscoveryCardsRequest{})
		require.NoError(t, err)
		assert.Len(t, cards, 2)
	}
}

func TestDiscoveryService_NoSources(t *testing.T) {
	svc := newTestDiscovery(nil, nil, nil, nil, DiscoveryConfig{Feeds: []string{"https://feeds.example.com/tech"}})
	_, err := svc.FetchCards(context.Background(), &dto.DiscoveryCardsRequest{})
	assert.ErrorIs(t, err, code.ErrorFetchFailed)
}

func TestDiscoveryService_AddCardToEdition(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issue := createIssue(t, NewIssueService(repos, nil))
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)
	feeds, searcher, cfg := discoveryFixture()
	svc := newTestDiscovery(feeds, searcher, nil, links, cfg)

	link, err := svc.AddCardToEdition(ctx, &dto.DiscoveryAddRequest{IssueID: issue.ID, URL: "https://news.example.com/openai"})
	require.NoError(t, err)
	assert.Equal(t, issue.ID, link.IssueID)

	_, err = svc.AddCardToEdition(ctx, &dto.DiscoveryAddRequest{IssueID: issue.ID, URL: "https://news.example.com/openai"})
	assert.ErrorIs(t, err, code.ErrorLinkExists)
}
