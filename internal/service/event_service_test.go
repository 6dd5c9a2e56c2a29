package service

import (
	"context"
	"testing"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEventService_FetchUpcoming(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issue := createIssue(t, NewIssueService(repos, nil))
	svc := NewEventService(repos, ai.NewMockProvider(), fakeCalendar{text: "Feb 10 | G20 | Brussels"}, nil)

	res, err := svc.FetchUpcoming(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feb 9, 2026 – Feb 14, 2026", res.WeekRange)
	assert.Equal(t, 3, res.Count)
	for i, e := range res.Events {
		assert.True(t, e.Included)
		assert.Equal(t, i, e.Order)
		assert.Equal(t, issue.ID, e.IssueID)
	}

	// a second fetch replaces the previous events
	_, err = svc.FetchUpcoming(ctx, issue.ID)
	require.NoError(t, err)
	events, err := repos.Event.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestEventService_FetchUpcomingNeedsPublishDate(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	issue := createIssue(t, issues)
	_, err := issues.Update(ctx, &dto.IssueUpdateRequest{ID: issue.ID, Title: issue.Title})
	require.NoError(t, err)

	svc := NewEventService(repos, ai.NewMockProvider(), nil, nil)
	_, err = svc.FetchUpcoming(ctx, issue.ID)
	assert.ErrorIs(t, err, code.ErrorNoPublishDate)

	_, err = svc.FetchUpcoming(ctx, 404)
	assert.ErrorIs(t, err, code.ErrorNoPublishDate)
}

func TestEventService_AddUpdateToggleRemove(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issue := createIssue(t, NewIssueService(repos, nil))
	svc := NewEventService(repos, ai.NewMockProvider(), nil, nil)

	first, err := svc.Add(ctx, &dto.EventAddRequest{
		IssueID:  issue.ID,
		Title:    "Munich Security Conference",
		Date:     "Feb 13, 2026",
		Location: "Munich, Germany",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Description)
	assert.True(t, first.Included)
	assert.Equal(t, 0, first.Order)
	assert.Nil(t, first.SourceURL)

	second, err := svc.Add(ctx, &dto.EventAddRequest{
		IssueID:     issue.ID,
		Title:       "OPEC+ meeting",
		Date:        "Feb 12, 2026",
		Location:    "Vienna, Austria",
		Description: "Will supply discipline hold?",
		SourceURL:   "https://example.com/opec",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, "Will supply discipline hold?", second.Description)

	require.NoError(t, repos.Event.UpdateShortURL(ctx, second.ID, "https://sho.rt/opec"))

	// untouched source keeps the short URL
	renamed, err := svc.Update(ctx, &dto.EventUpdateRequest{ID: second.ID, Title: strPtr("OPEC+ ministerial")})
	require.NoError(t, err)
	assert.Equal(t, "OPEC+ ministerial", renamed.Title)
	assert.Equal(t, "Vienna, Austria", renamed.Location)
	require.NotNil(t, renamed.ShortURL)

	moved, err := svc.Update(ctx, &dto.EventUpdateRequest{ID: second.ID, SourceURL: strPtr("https://example.com/opec-2")})
	require.NoError(t, err)
	assert.Nil(t, moved.ShortURL)
	require.NotNil(t, moved.SourceURL)
	assert.Equal(t, "https://example.com/opec-2", *moved.SourceURL)

	toggled, err := svc.Toggle(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Included)
	included, err := repos.Event.ListIncluded(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, included, 1)

	require.NoError(t, svc.Remove(ctx, first.ID))
	assert.ErrorIs(t, svc.Remove(ctx, first.ID), code.ErrorEventNotFound)
	_, err = svc.Toggle(ctx, first.ID)
	assert.ErrorIs(t, err, code.ErrorEventNotFound)
}
