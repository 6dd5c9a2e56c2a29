package service

import (
	"context"
	"testing"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
	"github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueService_CreateDefaults(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewIssueService(repos, nil)

	issue := createIssue(t, svc)
	assert.Equal(t, "Snapshot - Feb 8, 2026", issue.Title)
	assert.Equal(t, workflow.StepLinks, issue.CurrentStep)
	require.NotNil(t, issue.PublishDate)
	assert.True(t, sunday.Equal(*issue.PublishDate))
	assert.Empty(t, issue.CompletedSteps)

	_, err := svc.Create(context.Background(), &dto.IssueCreateRequest{PublishDate: "next sunday"})
	assert.ErrorIs(t, err, code.ErrorInvalidParams)
}

func TestIssueService_CreateWithoutDateUsesNextSunday(t *testing.T) {
	svc := NewIssueService(newTestRepos(t), nil)
	svc.(*issueService).now = func() time.Time {
		return time.Date(2026, 2, 4, 15, 30, 0, 0, time.Local)
	}

	issue, err := svc.Create(context.Background(), &dto.IssueCreateRequest{Title: "  Custom  "})
	require.NoError(t, err)
	assert.Equal(t, "Custom", issue.Title)
	require.NotNil(t, issue.PublishDate)
	assert.True(t, sunday.Equal(*issue.PublishDate))
}

func TestIssueService_GetMissing(t *testing.T) {
	svc := NewIssueService(newTestRepos(t), nil)
	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, code.ErrorIssueNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 404), code.ErrorIssueNotFound)
}

func TestIssueService_ListWithCounts(t *testing.T) {
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)

	first := createIssue(t, issues)
	createIssue(t, issues)
	addLinks(t, links, first.ID, 2)

	list, total, err := issues.List(context.Background(), &app.Pager{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)

	byID := map[int64]*IssueDTO{}
	for _, i := range list {
		byID[i.ID] = i
	}
	assert.Equal(t, 2, byID[first.ID].LinkCount)
	assert.Equal(t, []workflow.Step{workflow.StepLinks}, byID[first.ID].CompletedSteps)
}

func TestIssueService_AdvanceWithThreeLinksSkipsSelect(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)

	issue := createIssue(t, issues)
	addLinks(t, links, issue.ID, 2)

	_, err := issues.Advance(ctx, issue.ID)
	assert.ErrorIs(t, err, code.ErrorStepNotAllowed)

	addLinks(t, links, issue.ID, 1)
	step, err := issues.Advance(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepGenerate, step.CurrentStep)
	assert.Contains(t, step.CompletedSteps, workflow.StepSelect)

	selected, err := repos.Link.ListSelected(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, selected, 3)
}

func TestIssueService_AdvanceWithMoreLinksGoesToSelect(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)

	issue := createIssue(t, issues)
	added := addLinks(t, links, issue.ID, 5)

	step, err := issues.Advance(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepSelect, step.CurrentStep)

	// select gate stays closed until exactly three links are chosen
	_, err = issues.Advance(ctx, issue.ID)
	assert.ErrorIs(t, err, code.ErrorStepNotAllowed)

	_, err = links.SelectFinal(ctx, &dto.LinkSelectRequest{
		IssueID: issue.ID,
		IDs:     []int64{added[0].ID, added[2].ID, added[4].ID},
	})
	require.NoError(t, err)

	step, err = issues.Advance(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepGenerate, step.CurrentStep)
}

func TestIssueService_SetStep(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)

	issue := createIssue(t, issues)

	_, err := issues.SetStep(ctx, issue.ID, "export")
	assert.ErrorIs(t, err, code.ErrorStepNotAllowed)

	_, err = issues.SetStep(ctx, issue.ID, "publish")
	assert.ErrorIs(t, err, code.ErrorInvalidParams)

	step, err := issues.SetStep(ctx, issue.ID, "links")
	require.NoError(t, err)
	assert.Equal(t, workflow.StepLinks, step.CurrentStep)
}

func TestIssueService_SetStepPastSelectWithThreeLinks(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)

	issue := createIssue(t, issues)
	addLinks(t, links, issue.ID, 3)

	step, err := issues.SetStep(ctx, issue.ID, "generate")
	require.NoError(t, err)
	assert.Equal(t, workflow.StepGenerate, step.CurrentStep)
	assert.Contains(t, step.CompletedSteps, workflow.StepSelect)

	selected, err := repos.Link.ListSelected(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, selected, 3)

	res, err := NewDraftService(repos, ai.NewMockProvider(), nil, nil).Generate(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Generated)
}

func TestIssueService_SetStepBackKeepsSelection(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)

	issue := createIssue(t, issues)
	added := addLinks(t, links, issue.ID, 3)
	_, err := issues.SetStep(ctx, issue.ID, "generate")
	require.NoError(t, err)

	// a manual deselect after the select step is left alone when moving on
	_, err = links.Toggle(ctx, &dto.LinkToggleRequest{ID: added[1].ID, Selected: boolPtr(false)})
	require.NoError(t, err)
	_, err = issues.SetStep(ctx, issue.ID, "links")
	require.NoError(t, err)

	selected, err := repos.Link.ListSelected(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, selected, 2)
}

func TestIssueService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	links := NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil)

	issue := createIssue(t, issues)
	added := addLinks(t, links, issue.ID, 2)

	require.NoError(t, issues.Delete(ctx, issue.ID))

	_, err := issues.Get(ctx, issue.ID)
	assert.ErrorIs(t, err, code.ErrorIssueNotFound)
	_, err = repos.Link.GetByID(ctx, added[0].ID)
	assert.Error(t, err)
}

func TestIssueService_EnsureUpcomingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewIssueService(newTestRepos(t), nil)
	svc.(*issueService).now = func() time.Time {
		return time.Date(2026, 2, 2, 9, 0, 0, 0, time.Local)
	}

	created, ok, err := svc.EnsureUpcoming(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, created.PublishDate)
	assert.True(t, sunday.Equal(*created.PublishDate))

	again, ok, err := svc.EnsureUpcoming(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, created.ID, again.ID)
}
