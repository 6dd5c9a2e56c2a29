package service

import (
	"context"
	"testing"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShortenService_ShortenAll(t *testing.T) {
	ctx := context.Background()
	repos, issue, links := draftFixture(t)

	events := NewEventService(repos, ai.NewMockProvider(), nil, nil)
	withSource, err := events.Add(ctx, &dto.EventAddRequest{
		IssueID: issue.ID, Title: "Chip summit", Date: "Feb 10, 2026", Location: "Taipei",
		Description: "Watch the export-control talk.", SourceURL: "https://example.com/summit",
	})
	require.NoError(t, err)
	_, err = events.Add(ctx, &dto.EventAddRequest{
		IssueID: issue.ID, Title: "Budget vote", Date: "Feb 11, 2026", Location: "Brussels",
		Description: "Numbers matter.",
	})
	require.NoError(t, err)

	pool := workerpool.New(&workerpool.Config{MaxWorkers: 2, QueueSize: 8}, zap.NewNop())
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	shortener := &fakeShortener{fail: map[string]bool{links[1].URL: true}}
	svc := NewShortenService(repos, shortener, pool, nil)

	res, err := svc.ShortenAll(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, res.Shortened)
	assert.Len(t, shortener.seen, 4)

	kept, err := repos.Link.GetByID(ctx, links[1].ID)
	require.NoError(t, err)
	require.NotNil(t, kept.ShortURL)
	assert.Equal(t, links[1].URL, *kept.ShortURL)

	short, err := repos.Link.GetByID(ctx, links[0].ID)
	require.NoError(t, err)
	require.NotNil(t, short.ShortURL)
	assert.Contains(t, *short.ShortURL, "https://sho.rt/")

	ev, err := repos.Event.GetByID(ctx, withSource.ID)
	require.NoError(t, err)
	require.NotNil(t, ev.ShortURL)
	assert.Contains(t, *ev.ShortURL, "https://sho.rt/")
}

func TestShortenService_WithoutPoolRunsInline(t *testing.T) {
	ctx := context.Background()
	repos, issue, _ := draftFixture(t)
	svc := NewShortenService(repos, &fakeShortener{}, nil, nil)

	res, err := svc.ShortenAll(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Shortened)

	_, err = svc.ShortenAll(ctx, 404)
	assert.ErrorIs(t, err, code.ErrorIssueNotFound)
}
