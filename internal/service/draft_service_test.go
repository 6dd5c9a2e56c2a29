package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyProvider fails sections whose URL contains failOn
type flakyProvider struct {
	ai.Provider
	failOn string
}

func (p flakyProvider) GenerateSection(ctx context.Context, in ai.SectionInput) (*ai.Draft, error) {
	if strings.Contains(in.URL, p.failOn) {
		return nil, errors.New("model overloaded")
	}
	return p.Provider.GenerateSection(ctx, in)
}

// draftFixture is an issue with three selected links
func draftFixture(t *testing.T) (*Repositories, *IssueDTO, []*LinkDTO) {
	t.Helper()
	repos := newTestRepos(t)
	issues := NewIssueService(repos, nil)
	issue := createIssue(t, issues)
	links := addLinks(t, NewLinkService(repos, fakeMetadata{}, nil, nil, UploadConfig{}, nil), issue.ID, 3)
	_, err := issues.Advance(context.Background(), issue.ID)
	require.NoError(t, err)
	return repos, issue, links
}

func TestDraftService_GenerateRequiresSelection(t *testing.T) {
	repos := newTestRepos(t)
	issue := createIssue(t, NewIssueService(repos, nil))
	svc := NewDraftService(repos, ai.NewMockProvider(), nil, nil)

	_, err := svc.Generate(context.Background(), issue.ID)
	assert.ErrorIs(t, err, code.ErrorNoLinksSelected)

	_, err = svc.Generate(context.Background(), 404)
	assert.ErrorIs(t, err, code.ErrorIssueNotFound)
}

func TestDraftService_GenerateOneSectionPerLink(t *testing.T) {
	ctx := context.Background()
	repos, issue, links := draftFixture(t)
	archive := &fakeArchive{}
	svc := NewDraftService(repos, ai.NewMockProvider(), archive, nil)

	res, err := svc.Generate(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Generated)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Errors)
	assert.Len(t, archive.titles, 3)

	sections, err := repos.Section.ListMain(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	for i, s := range sections {
		assert.Equal(t, i, s.Order)
		assert.Equal(t, domain.SectionTypeMain, s.SectionType)
		require.NotNil(t, s.LinkItemID)
		assert.Equal(t, links[i].ID, *s.LinkItemID)
		assert.Len(t, s.Content.TitleOptions, 5)
	}

	// regenerating replaces rather than appends
	_, err = svc.Generate(ctx, issue.ID)
	require.NoError(t, err)
	sections, err = repos.Section.ListMain(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, sections, 3)
}

func TestDraftService_GenerateReportsPerLinkFailures(t *testing.T) {
	repos, issue, _ := draftFixture(t)
	svc := NewDraftService(repos, flakyProvider{Provider: ai.NewMockProvider(), failOn: "story-b"}, nil, nil)

	res, err := svc.Generate(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Generated)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Section 2 (Title of https://example.com/story-b): model overloaded", res.Errors[0])
}

func TestDraftService_TitleSelectionAndDiff(t *testing.T) {
	ctx := context.Background()
	repos, issue, _ := draftFixture(t)
	svc := NewDraftService(repos, ai.NewMockProvider(), nil, nil)
	_, err := svc.Generate(ctx, issue.ID)
	require.NoError(t, err)

	sections, err := repos.Section.ListMain(ctx, issue.ID)
	require.NoError(t, err)
	section := sections[0]
	options := section.Content.TitleOptions

	_, err = svc.SelectTitle(ctx, &dto.SectionTitleRequest{ID: section.ID, Title: "Not an option"})
	assert.ErrorIs(t, err, code.ErrorInvalidParams)

	picked, err := svc.SelectTitle(ctx, &dto.SectionTitleRequest{ID: section.ID, Title: options[2]})
	require.NoError(t, err)
	assert.Equal(t, options[2], picked.Title)
	assert.Equal(t, options[0], picked.Content.ResolveTitle())

	custom, err := svc.SelectTitle(ctx, &dto.SectionTitleRequest{ID: section.ID, Title: domain.CustomTitleSentinel, CustomTitle: "My own headline"})
	require.NoError(t, err)
	assert.Equal(t, "My own headline", custom.Title)

	noDiff, err := svc.Diff(ctx, sections[1].ID)
	require.NoError(t, err)
	assert.False(t, noDiff.Diff.Changed)

	_, err = svc.UpdateContent(ctx, &dto.SectionContentRequest{
		ID:           sections[1].ID,
		WhyItMatters: "Rewritten context.",
		MyThoughts:   sections[1].Content.MyThoughts,
	})
	require.NoError(t, err)

	d, err := svc.Diff(ctx, sections[1].ID)
	require.NoError(t, err)
	assert.True(t, d.Diff.Changed)
	assert.Contains(t, d.Edited, "Rewritten context.")
	assert.NotContains(t, d.Original, "Rewritten context.")

	_, err = svc.Diff(ctx, 999)
	assert.ErrorIs(t, err, code.ErrorSectionNotFound)
}
