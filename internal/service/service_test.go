package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/dao"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/internal/fetch"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/writequeue"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{Type: "sqlite", Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)

	wq := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	d, err := dao.New(db, dao.WithConfig(&dao.DatabaseConfig{AutoMigrate: true}), dao.WithLogger(zap.NewNop()), dao.WithWriteQueueManager(wq))
	require.NoError(t, err)

	return &Repositories{
		Issue:   dao.NewIssueRepository(d),
		Link:    dao.NewLinkRepository(d),
		Event:   dao.NewEventRepository(d),
		Section: dao.NewSectionRepository(d),
		Export:  dao.NewExportRepository(d),
		Image:   dao.NewImageRepository(d),
	}
}

// fakeMetadata returns a title derived from the URL
type fakeMetadata struct{}

func (fakeMetadata) Fetch(_ context.Context, url string) fetch.Metadata {
	return fetch.Metadata{Title: "Title of " + url, Description: "Description of " + url}
}

// fakeShortener shortens every URL except those listed in fail
type fakeShortener struct {
	mu   sync.Mutex
	fail map[string]bool
	seen []string
}

func (f *fakeShortener) Shorten(_ context.Context, longURL string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, longURL)
	if f.fail[longURL] {
		return longURL, false
	}
	return "https://sho.rt/" + strconv.Itoa(len(f.seen)), true
}

type fakeTranscriber struct{ text string }

func (f fakeTranscriber) Transcribe(_ context.Context, r io.Reader, _ string) *string {
	if f.text == "" {
		return nil
	}
	_, _ = io.Copy(io.Discard, r)
	t := f.text
	return &t
}

// memStorage keeps uploaded files in memory
type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) SendFile(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.files[key] = buf.Bytes()
	m.mu.Unlock()
	return "/storage/" + key, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

type fakeCalendar struct{ text string }

func (f fakeCalendar) Fetch(context.Context) string { return f.text }

type fakeArchive struct {
	mu     sync.Mutex
	titles []string
}

func (f *fakeArchive) Search(_ context.Context, title, _, _ string) string {
	f.mu.Lock()
	f.titles = append(f.titles, title)
	f.mu.Unlock()
	return "Past issue mentioned " + title
}

// sunday is a fixed publish date used across tests
var sunday = time.Date(2026, 2, 8, 9, 0, 0, 0, time.Local)

func createIssue(t *testing.T, svc IssueService) *IssueDTO {
	t.Helper()
	issue, err := svc.Create(context.Background(), &dto.IssueCreateRequest{PublishDate: "2026-02-08"})
	require.NoError(t, err)
	return issue
}

// addLinks adds n links named story-a, story-b, ... continuing after the
// letters the issue already holds
func addLinks(t *testing.T, svc LinkService, issueID int64, n int) []*LinkDTO {
	t.Helper()
	out := make([]*LinkDTO, 0, n)
	for i := 0; len(out) < n; i++ {
		require.Less(t, i, 26, "ran out of link names")
		l, err := svc.Add(context.Background(), &dto.LinkAddRequest{
			IssueID: issueID,
			URL:     "https://example.com/story-" + string(rune('a'+i)),
		})
		if errors.Is(err, code.ErrorLinkExists) {
			continue
		}
		require.NoError(t, err)
		out = append(out, l)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
