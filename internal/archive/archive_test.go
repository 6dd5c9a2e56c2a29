package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const corpus = `Weekly Snapshot - Jan 05, 2025

👉 Semiconductor export controls tighten
↳ Why it matters
Washington widened semiconductor restrictions on advanced chips.
↳ My thoughts on it
Expect Beijing to accelerate domestic semiconductor programs.

👉 Shipping insurance in the Red Sea
↳ Why it matters
Insurers raised premiums for vessels transiting the Red Sea.
----Page (2) Break----
↳ My thoughts on it
Freight costs will stay elevated.

👉 To Keep An Eye On
* Davos (Jan 20, 2025) – Forum.
You can read more about each topic by accessing the links below.
Weekly Snapshot - Jan 12, 2025

Lithium prices slump
↳ Why it matters
Battery makers renegotiate lithium contracts.
↳ My thoughts on it
Miners will cut output.
`

func writeCorpus(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot-archive.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestParse(t *testing.T) {
	issues := Parse(corpus)
	require.Len(t, issues, 2)

	first := issues[0]
	assert.Equal(t, "Jan 05, 2025", first.Date)
	require.Len(t, first.Sections, 2)
	assert.Equal(t, "👉 Semiconductor export controls tighten", first.Sections[0].Title)
	assert.Equal(t, "Washington widened semiconductor restrictions on advanced chips.", first.Sections[0].WhyItMatters)
	assert.Equal(t, "👉 Shipping insurance in the Red Sea", first.Sections[1].Title)
	assert.NotContains(t, first.Sections[1].WhyItMatters, "Page (2)")
	assert.Equal(t, "Freight costs will stay elevated.\n\n👉", first.Sections[1].MyThoughts)
	assert.Equal(t, "* Davos (Jan 20, 2025) – Forum.", first.Events)

	second := issues[1]
	assert.Equal(t, "Jan 12, 2025", second.Date)
	require.Len(t, second.Sections, 1)
	assert.Equal(t, "Lithium prices slump", second.Sections[0].Title)
	assert.Equal(t, "", second.Events)
}

func TestParse_CapsFields(t *testing.T) {
	long := strings.Repeat("x", 800)
	issues := Parse("Weekly Snapshot - Feb 1, 2025\nTitle\n↳ Why it matters\n" + long + "\n↳ My thoughts on it\n" + long + "\n")
	require.Len(t, issues, 1)
	assert.Len(t, issues[0].Sections[0].WhyItMatters, fieldCap)
	assert.Len(t, issues[0].Sections[0].MyThoughts, fieldCap)
}

func TestParse_SkipsChunksWithoutSections(t *testing.T) {
	assert.Empty(t, Parse("preamble\nWeekly Snapshot - Mar 1, 2025\nnothing here\n"))
	assert.Empty(t, Parse(""))
}

func TestKeywords(t *testing.T) {
	kw := Keywords("The NEW semiconductor rules, semiconductor https://www.example.com/news/chips-2025")
	assert.Equal(t, []string{"semiconductor", "rules", "example", "chips", "2025"}, kw)
}

func TestSearch(t *testing.T) {
	a := New(writeCorpus(t, corpus), zap.NewNop())
	ctx := context.Background()

	out := a.Search(ctx, "Semiconductor controls", "New semiconductor export limits", "https://example.com/chips")
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(out, contextHeading))
	assert.Contains(t, out, `--- Jan 05, 2025: "👉 Semiconductor export controls tighten" ---`)
	assert.NotContains(t, out, "Lithium")

	assert.Equal(t, "", a.Search(ctx, "Quantum", "teleportation", "https://q.example/x"))
}

func TestSearch_MissingFileFailsOpen(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	assert.Equal(t, "", a.Search(context.Background(), "anything", "", ""))
	assert.Equal(t, "", a.TopicIndex(context.Background()))
}

func TestFormatContext_Truncates(t *testing.T) {
	long := strings.Repeat("y", 400)
	matches := make([]Match, 0, 10)
	for i := 0; i < 10; i++ {
		matches = append(matches, Match{Section: Section{IssueDate: "d", Title: "t", WhyItMatters: long, MyThoughts: long}})
	}
	out := FormatContext(matches)
	assert.True(t, strings.HasSuffix(out, "\n[...truncated]"))
	assert.Equal(t, contextCap+len("\n[...truncated]"), len(out))
}

func TestRank_TopThreeByScore(t *testing.T) {
	issues := []Issue{{Sections: []Section{
		{Title: "alpha", WhyItMatters: "beta"},
		{Title: "alpha beta", WhyItMatters: ""},
		{Title: "x", WhyItMatters: "alpha beta"},
		{Title: "alpha", WhyItMatters: "beta gamma"},
		{Title: "none", WhyItMatters: "none"},
	}}}
	matches := Rank(issues, []string{"alpha", "beta"})
	require.Len(t, matches, topN)
	assert.Equal(t, "alpha beta", matches[0].Section.Title)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestTopicIndex(t *testing.T) {
	a := New(writeCorpus(t, corpus), zap.NewNop())
	idx := a.TopicIndex(context.Background())
	assert.True(t, strings.HasPrefix(idx, topicHeading))
	assert.Contains(t, idx, `Jan 12, 2025: "Lithium prices slump"`)
}

func TestIssues_LoadsOnceConcurrently(t *testing.T) {
	path := writeCorpus(t, corpus)
	a := New(path, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, a.Issues(context.Background()), 2)
		}()
	}
	wg.Wait()

	require.NoError(t, os.Remove(path))
	assert.Len(t, a.Issues(context.Background()), 2)
}
