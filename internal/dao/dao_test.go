package dao

import (
	"context"
	"testing"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/model"
	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
	"github.com/pulse-beyond/pulse-beyond/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{Type: "sqlite", Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)

	wq := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	d, err := New(db, WithConfig(&DatabaseConfig{AutoMigrate: true}), WithLogger(zap.NewNop()), WithWriteQueueManager(wq))
	require.NoError(t, err)
	return d
}

func strPtr(s string) *string { return &s }

func TestIssueRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewIssueRepository(newTestDao(t))

	publish := time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, &domain.Issue{Title: "Snapshot - Feb 2, 2026", PublishDate: &publish})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, workflow.StepLinks, created.CurrentStep)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snapshot - Feb 2, 2026", got.Title)
	require.NotNil(t, got.PublishDate)
	assert.True(t, publish.Equal(*got.PublishDate))

	got.Title = "Renamed"
	got.PublishDate = nil
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Nil(t, updated.PublishDate)

	require.NoError(t, repo.UpdateStep(ctx, created.ID, workflow.StepGenerate))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepGenerate, got.CurrentStep)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdateStep(ctx, 9999, workflow.StepSelect), gorm.ErrRecordNotFound)
}

func TestIssueRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issues := NewIssueRepository(d)
	links := NewLinkRepository(d)
	events := NewEventRepository(d)
	sections := NewSectionRepository(d)
	exports := NewExportRepository(d)
	images := NewImageRepository(d)

	issue, err := issues.Create(ctx, &domain.Issue{Title: "cascade"})
	require.NoError(t, err)
	other, err := issues.Create(ctx, &domain.Issue{Title: "other"})
	require.NoError(t, err)

	link, err := links.Create(ctx, &domain.LinkItem{IssueID: issue.ID, URL: "https://a.example"})
	require.NoError(t, err)
	_, err = links.Create(ctx, &domain.LinkItem{IssueID: other.ID, URL: "https://b.example"})
	require.NoError(t, err)
	_, err = events.Create(ctx, &domain.EventItem{IssueID: issue.ID, Title: "Summit", Included: true})
	require.NoError(t, err)
	section, err := sections.Create(ctx, &domain.GeneratedSection{IssueID: issue.ID, LinkItemID: &link.ID, Content: domain.SectionContent{TitleOptions: []string{"T"}}})
	require.NoError(t, err)
	_, err = exports.Create(ctx, &domain.Export{IssueID: issue.ID, Content: "x"})
	require.NoError(t, err)
	_, err = images.Create(ctx, &domain.GeneratedImage{IssueID: issue.ID, SectionID: section.ID, ImageData: "AA==", MimeType: "image/png"})
	require.NoError(t, err)

	require.NoError(t, issues.Delete(ctx, issue.ID))

	_, err = issues.GetByID(ctx, issue.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	for _, count := range []func(context.Context, int64) (int64, error){links.CountByIssue, exports.CountByIssue, images.CountByIssue} {
		n, err := count(ctx, issue.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
	evs, err := events.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, evs)
	secs, err := sections.ListMain(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, secs)

	n, err := links.CountByIssue(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, issues.Delete(ctx, issue.ID), gorm.ErrRecordNotFound)
}

func TestIssueRepository_ListOpenAndRange(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issues := NewIssueRepository(d)
	exports := NewExportRepository(d)

	later := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 2, 22, 9, 0, 0, 0, time.UTC)
	a, err := issues.Create(ctx, &domain.Issue{Title: "later", PublishDate: &later})
	require.NoError(t, err)
	b, err := issues.Create(ctx, &domain.Issue{Title: "earlier", PublishDate: &earlier})
	require.NoError(t, err)
	c, err := issues.Create(ctx, &domain.Issue{Title: "exported", PublishDate: &earlier})
	require.NoError(t, err)
	_, err = exports.Create(ctx, &domain.Export{IssueID: c.ID, Content: "done"})
	require.NoError(t, err)

	open, err := issues.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, b.ID, open[0].ID)
	assert.Equal(t, a.ID, open[1].ID)

	inRange, err := issues.ListByPublishRange(ctx, earlier.Add(-time.Hour), earlier.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	all, err := issues.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	total, err := issues.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestLinkRepository_OrderAndSelection(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issue, err := NewIssueRepository(d).Create(ctx, &domain.Issue{Title: "links"})
	require.NoError(t, err)
	repo := NewLinkRepository(d)

	max, err := repo.MaxOrder(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, max)

	var ids []int64
	for i, u := range []string{"https://c.example", "https://a.example", "https://b.example", "https://d.example"} {
		l, err := repo.Create(ctx, &domain.LinkItem{IssueID: issue.ID, URL: u, Order: 3 - i})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}

	list, err := repo.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "https://d.example", list[0].URL)
	assert.Equal(t, "https://c.example", list[3].URL)

	max, err = repo.MaxOrder(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, max)

	require.NoError(t, repo.ReplaceSelection(ctx, issue.ID, ids[:3]))
	require.NoError(t, repo.ReplaceSelection(ctx, issue.ID, ids[1:]))
	selected, err := repo.ListSelected(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, selected, 3)
	for _, l := range selected {
		assert.NotEqual(t, ids[0], l.ID)
	}

	found, err := repo.FindByURL(ctx, issue.ID, "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, ids[1], found.ID)

	require.NoError(t, repo.UpdateToneNote(ctx, ids[1], strPtr("skeptical")))
	require.NoError(t, repo.UpdateShortURL(ctx, ids[1], "https://tinyurl.com/x"))
	require.NoError(t, repo.UpdateAudio(ctx, ids[1], "audio/a.m4a", strPtr("hello")))
	got, err := repo.GetByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "skeptical", *got.ToneNote)
	assert.Equal(t, "https://tinyurl.com/x", got.DisplayURL())
	assert.Equal(t, "hello", *got.AudioTranscript)

	require.NoError(t, repo.UpdateToneNote(ctx, ids[1], nil))
	got, err = repo.GetByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Nil(t, got.ToneNote)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), gorm.ErrRecordNotFound)
	n, err := repo.CountByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestEventRepository_ReplaceAllKeepsIncludedFlag(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issue, err := NewIssueRepository(d).Create(ctx, &domain.Issue{Title: "events"})
	require.NoError(t, err)
	repo := NewEventRepository(d)

	_, err = repo.Create(ctx, &domain.EventItem{IssueID: issue.ID, Title: "old", Included: true})
	require.NoError(t, err)

	out, err := repo.ReplaceAll(ctx, issue.ID, []*domain.EventItem{
		{Title: "G20", Date: "Feb 17, 2026", Included: true, Order: 0},
		{Title: "OPEC", Date: "Feb 18, 2026", Included: false, Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	all, err := repo.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "G20", all[0].Title)

	included, err := repo.ListIncluded(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, included, 1)
	assert.Equal(t, "G20", included[0].Title)

	require.NoError(t, repo.UpdateIncluded(ctx, all[1].ID, true))
	all[1].Location = "Vienna"
	updated, err := repo.Update(ctx, all[1])
	require.NoError(t, err)
	assert.Equal(t, "Vienna", updated.Location)
	assert.True(t, updated.Included)
}

func TestUpdateShortURL_EmptyClears(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issue, err := NewIssueRepository(d).Create(ctx, &domain.Issue{Title: "short"})
	require.NoError(t, err)

	events := NewEventRepository(d)
	ev, err := events.Create(ctx, &domain.EventItem{IssueID: issue.ID, Title: "G20", SourceURL: strPtr("https://example.com/g20")})
	require.NoError(t, err)
	require.NoError(t, events.UpdateShortURL(ctx, ev.ID, "https://tinyurl.com/g20"))
	require.NoError(t, events.UpdateShortURL(ctx, ev.ID, ""))
	got, err := events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ShortURL)

	var nulls int64
	require.NoError(t, d.db.Model(&model.EventItem{}).Where("id = ? AND short_url IS NULL", ev.ID).Count(&nulls).Error)
	assert.Equal(t, int64(1), nulls)

	links := NewLinkRepository(d)
	l, err := links.Create(ctx, &domain.LinkItem{IssueID: issue.ID, URL: "https://example.com/a"})
	require.NoError(t, err)
	require.NoError(t, links.UpdateShortURL(ctx, l.ID, "https://tinyurl.com/a"))
	require.NoError(t, links.UpdateShortURL(ctx, l.ID, ""))
	gotLink, err := links.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, gotLink.ShortURL)
	assert.False(t, gotLink.HasShortURL())
}

func TestSectionRepository_EditedOverlay(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issue, err := NewIssueRepository(d).Create(ctx, &domain.Issue{Title: "sections"})
	require.NoError(t, err)
	repo := NewSectionRepository(d)

	original := domain.SectionContent{TitleOptions: []string{"One", "Two"}, WhyItMatters: "why", MyThoughts: "thoughts"}
	s, err := repo.Create(ctx, &domain.GeneratedSection{IssueID: issue.ID, Content: original})
	require.NoError(t, err)
	assert.Equal(t, domain.SectionTypeMain, s.SectionType)
	assert.Nil(t, s.EditedContent)

	edited := original.Clone()
	edited.SelectedTitle = domain.CustomTitleSentinel
	edited.CustomTitle = "Mine"
	require.NoError(t, repo.UpdateEdited(ctx, s.ID, edited))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, original, got.Content)
	require.NotNil(t, got.EditedContent)
	assert.Equal(t, "Mine", got.Effective().ResolveTitle())

	require.NoError(t, repo.DeleteMain(ctx, issue.ID))
	list, err := repo.ListMain(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExportRepository_LatestWins(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	issue, err := NewIssueRepository(d).Create(ctx, &domain.Issue{Title: "exports"})
	require.NoError(t, err)
	repo := NewExportRepository(d)

	latest, err := repo.Latest(ctx, issue.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = repo.Create(ctx, &domain.Export{IssueID: issue.ID, Content: "first"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.Export{IssueID: issue.ID, Content: "second", Format: domain.ExportFormatMd})
	require.NoError(t, err)

	latest, err = repo.Latest(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	list, err := repo.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Equal(t, domain.ExportFormatTxt, list[1].Format)
}
