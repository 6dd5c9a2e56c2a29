package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DiscoveryService 定义选题发现业务服务接口
type DiscoveryService interface {
	// FetchCards returns story cards for the current edition window, served from cache
	// unless refresh is set or the cache expired
	// FetchCards 获取本期选题卡片，默认走缓存
	FetchCards(ctx context.Context, params *dto.DiscoveryCardsRequest) ([]*DiscoveryCard, error)

	// AddCardToEdition 将卡片链接加入期刊
	AddCardToEdition(ctx context.Context, params *dto.DiscoveryAddRequest) (*LinkDTO, error)

	// Refresh 重新抓取并缓存卡片
	Refresh(ctx context.Context) error
}

// DiscoveryCard 选题卡片
type DiscoveryCard struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Source       string   `json:"source"`
	URL          string   `json:"url"`
	PublishedAt  string   `json:"publishedAt"`
	Topic        string   `json:"topic"`
	WhyItMatters string   `json:"whyItMatters"`
	Angle        string   `json:"angle"`
	KeyFacts     []string `json:"keyFacts"`
	TopicTags    []string `json:"topicTags"`
}

const (
	discoveryFetchLimit = 4
	discoveryMaxTokens  = 8192
)

// discoveryService 实现 DiscoveryService 接口
type discoveryService struct {
	feeds     FeedSource
	searcher  search.Searcher
	completer ai.Completer
	links     LinkService
	cfg       DiscoveryConfig
	author    string
	logger    *zap.Logger
	now       func() time.Time

	sf        singleflight.Group
	mu        sync.RWMutex
	cards     []*DiscoveryCard
	fetchedAt time.Time
}

// NewDiscoveryService creates the discovery service. feeds, searcher and completer may be nil;
// without a completer cards are framed from the candidate text.
// NewDiscoveryService 创建 DiscoveryService 实例
func NewDiscoveryService(feeds FeedSource, searcher search.Searcher, completer ai.Completer, links LinkService, cfg DiscoveryConfig, author string, lg *zap.Logger) DiscoveryService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &discoveryService{
		feeds:     feeds,
		searcher:  searcher,
		completer: completer,
		links:     links,
		cfg:       cfg,
		author:    author,
		logger:    lg,
		now:       time.Now,
	}
}

// FetchCards 获取选题卡片
func (s *discoveryService) FetchCards(ctx context.Context, params *dto.DiscoveryCardsRequest) ([]*DiscoveryCard, error) {
	cards, fresh := s.cached()
	if params.Refresh || !fresh {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		cards, _ = s.cached()
	}

	topic := strings.TrimSpace(params.Topic)
	if topic == "" {
		return cards, nil
	}
	out := make([]*DiscoveryCard, 0, len(cards))
	for _, c := range cards {
		if strings.EqualFold(c.Topic, topic) || containsFold(c.TopicTags, topic) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *discoveryService) cached() ([]*DiscoveryCard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchedAt.IsZero() {
		return nil, false
	}
	return s.cards, s.now().Sub(s.fetchedAt) < s.cfg.cacheTTL()
}

// Refresh rebuilds the card cache. Concurrent calls share one rebuild, which runs
// detached from any single caller; a caller whose ctx ends stops waiting early.
//
// Refresh 刷新卡片缓存，并发调用合并为一次
func (s *discoveryService) Refresh(ctx context.Context) error {
	ch := s.sf.DoChan("refresh", func() (any, error) {
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.refreshTimeout())
		defer cancel()

		cards, err := s.build(bctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cards = cards
		s.fetchedAt = s.now()
		s.mu.Unlock()
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		return r.Err
	}
}

// AddCardToEdition 加入期刊
func (s *discoveryService) AddCardToEdition(ctx context.Context, params *dto.DiscoveryAddRequest) (*LinkDTO, error) {
	return s.links.Add(ctx, &dto.LinkAddRequest{IssueID: params.IssueID, URL: params.URL})
}

func (s *discoveryService) build(ctx context.Context) ([]*DiscoveryCard, error) {
	hasFeeds := s.feeds != nil && len(s.cfg.Feeds) > 0
	hasSearch := s.searcher != nil && len(s.cfg.Queries) > 0
	if !hasFeeds && !hasSearch {
		return nil, code.ErrorFetchFailed.WithDetails("no discovery feeds or search queries configured")
	}

	now := s.now()
	start, end := util.EditionWindow(now)

	raw := s.gather(ctx, start, end)
	ranked := rankCandidates(raw, start, end, s.cfg.MaxCandidates)
	discoveryCandidates.WithLabelValues("ranked").Set(float64(len(ranked)))

	if len(ranked) == 0 {
		s.logger.Warn("discovery found no candidates",
			zap.Int("raw", len(raw)),
			zap.Time("start", start),
			zap.Time("end", end))
		return []*DiscoveryCard{}, nil
	}

	cards := s.frame(ctx, ranked, now, start, end)
	if limit := s.cfg.MaxCards; limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}
	s.logger.Info("discovery cards built",
		zap.Int("candidates", len(ranked)),
		zap.Int("cards", len(cards)))
	return cards, nil
}

// gather collects feed items and search results; a failing source is logged and skipped
// gather 并发抓取订阅源与新闻搜索
func (s *discoveryService) gather(ctx context.Context, start, end time.Time) []candidate {
	var (
		mu  sync.Mutex
		out []candidate
	)
	add := func(cs []candidate, source string) {
		mu.Lock()
		out = append(out, cs...)
		mu.Unlock()
		discoveryCandidates.WithLabelValues(source).Add(float64(len(cs)))
	}
	discoveryCandidates.WithLabelValues("feed").Set(0)
	discoveryCandidates.WithLabelValues("search").Set(0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(discoveryFetchLimit)

	if s.feeds != nil {
		for _, feedURL := range s.cfg.Feeds {
			g.Go(func() error {
				items, err := s.feeds.Fetch(gctx, feedURL, s.cfg.FeedItems)
				if err != nil {
					s.logger.Warn("discovery feed failed", zap.String(logger.FieldURL, feedURL), zap.Error(err))
					return nil
				}
				cs := make([]candidate, 0, len(items))
				for _, it := range items {
					cs = append(cs, candidate{
						Title:     it.Title,
						URL:       it.URL,
						Source:    it.Source,
						Summary:   it.Summary,
						Published: it.PublishedAt,
					})
				}
				add(cs, "feed")
				return nil
			})
		}
	}

	if s.searcher != nil {
		for _, query := range s.cfg.Queries {
			g.Go(func() error {
				resp, err := s.searcher.Search(gctx, &search.Request{
					Query:      query,
					Topic:      "news",
					MaxResults: s.cfg.SearchResults,
					StartDate:  start.Format("2006-01-02"),
					EndDate:    end.Format("2006-01-02"),
				})
				if err != nil {
					s.logger.Warn("discovery search failed", zap.String("query", query), zap.Error(err))
					return nil
				}
				cs := make([]candidate, 0, len(resp.Results))
				for _, r := range resp.Results {
					cs = append(cs, candidate{
						Title:      r.Title,
						URL:        r.URL,
						Source:     hostSource(r.URL),
						Summary:    util.Excerpt(r.Content, 400),
						Published:  parsePublished(r.PublishedDate),
						fromSearch: true,
					})
				}
				add(cs, "search")
				return nil
			})
		}
	}

	_ = g.Wait()
	return out
}

// frame asks the model to write the cards; without a model, or when its answer is unusable,
// cards are framed from the candidate text
// frame 调用模型撰写卡片，失败时回退为规则生成
func (s *discoveryService) frame(ctx context.Context, ranked []candidate, now, start, end time.Time) []*DiscoveryCard {
	if s.completer == nil {
		return s.frameLocal(ranked, now)
	}

	in := ai.DiscoveryInput{
		Today: now.Format(util.LongDateLayout),
		Start: util.FormatShortDate(start),
		End:   util.FormatShortDate(end),
	}
	for _, c := range ranked {
		in.Candidates = append(in.Candidates, ai.DiscoveryCandidate{
			Title:     c.Title,
			Source:    c.Source,
			URL:       c.URL,
			Published: relativeAge(c.Published, now),
			Summary:   util.Excerpt(c.Summary, 400),
		})
	}
	prompt, err := ai.DiscoveryPrompt(s.author, in)
	if err != nil {
		s.logger.Error("render discovery prompt failed", zap.Error(err))
		return s.frameLocal(ranked, now)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()
	text, err := s.completer.Complete(ctx, ai.Completion{
		System:    ai.SystemPrompt(s.author),
		User:      prompt,
		Model:     s.cfg.Model,
		MaxTokens: discoveryMaxTokens,
	})
	if err != nil {
		s.logger.Warn("discovery framing failed, using local framing", zap.Error(err))
		return s.frameLocal(ranked, now)
	}

	parsed, err := ai.ParseArray[DiscoveryCard](text)
	if err != nil {
		s.logger.Warn("discovery response unparsable, using local framing", zap.Error(err))
		return s.frameLocal(ranked, now)
	}

	byURL := make(map[string]candidate, len(ranked))
	for _, c := range ranked {
		byURL[strings.TrimSuffix(c.URL, "/")] = c
	}
	cards := make([]*DiscoveryCard, 0, len(parsed))
	seen := make(map[string]struct{}, len(parsed))
	for _, card := range parsed {
		key := strings.TrimSuffix(strings.TrimSpace(card.URL), "/")
		c, ok := byURL[key]
		if !ok {
			// 模型编造的链接
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		card.URL = c.URL
		if strings.TrimSpace(card.Title) == "" {
			card.Title = c.Title
		}
		if card.Source == "" {
			card.Source = c.Source
		}
		if card.PublishedAt == "" {
			card.PublishedAt = relativeAge(c.Published, now)
		}
		if card.Topic == "" {
			card.Topic = c.rank.topic
		}
		card.ID = cardID(card.ID, card.Title, len(cards))
		cards = append(cards, &card)
	}
	if len(cards) == 0 {
		s.logger.Warn("discovery response had no usable cards, using local framing",
			zap.Int("parsed", len(parsed)))
		return s.frameLocal(ranked, now)
	}
	return cards
}

// frameLocal 基于候选文本生成卡片
func (s *discoveryService) frameLocal(ranked []candidate, now time.Time) []*DiscoveryCard {
	cards := make([]*DiscoveryCard, 0, len(ranked))
	for i, c := range ranked {
		title := ai.SentenceCase(util.NormalizeQuotes(strings.TrimSpace(c.Title)))
		topic := c.rank.topic

		why := util.Excerpt(c.Summary, 280)
		if why == "" {
			why = fmt.Sprintf("A signal worth tracking in %s: the shift matters more than the headline.", topic)
		}

		tags := []string{topic}
		for _, kw := range c.rank.matched {
			if len(tags) == 3 {
				break
			}
			tag := tagName(kw)
			if !containsFold(tags, tag) {
				tags = append(tags, tag)
			}
		}

		cards = append(cards, &DiscoveryCard{
			ID:           cardID("", title, i),
			Title:        title,
			Source:       c.Source,
			URL:          c.URL,
			PublishedAt:  relativeAge(c.Published, now),
			Topic:        topic,
			WhyItMatters: why,
			Angle:        fmt.Sprintf("Read it as a %s story about leverage: who sets the terms next, and who has to adapt.", topic),
			KeyFacts:     keyFacts(c.Summary, 3),
			TopicTags:    tags,
		})
	}
	return cards
}

func cardID(id, title string, i int) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	if slug := util.Slugify(title); slug != "" {
		return slug
	}
	return fmt.Sprintf("card-%d", i)
}

// keyFacts 取摘要前 n 句
func keyFacts(summary string, n int) []string {
	facts := make([]string, 0, n)
	for _, part := range strings.SplitAfter(summary, ". ") {
		part = strings.TrimSpace(part)
		if len(part) < 20 {
			continue
		}
		facts = append(facts, part)
		if len(facts) == n {
			break
		}
	}
	return facts
}

func tagName(kw string) string {
	if len(kw) <= 4 {
		return strings.ToUpper(kw)
	}
	return strings.ToUpper(kw[:1]) + kw[1:]
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
