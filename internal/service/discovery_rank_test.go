package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreCandidate(t *testing.T) {
	cases := []struct {
		name, title, summary, topic string
		scored                      bool
	}{
		{"title keyword", "TSMC opens a new fab in Arizona", "", "Semiconductors", true},
		{"summary only", "A quiet week in Brussels", "Regulators debated CRISPR therapies.", "Biotech", true},
		{"word boundary", "Said the email", "Maintained a tradition.", "", false},
		{"excluded phrase", "Nvidia stock price slides", "", "", false},
		{"out of scope", "Local bakery wins award", "Croissants all round.", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scoreCandidate(tc.title, tc.summary)
			assert.Equal(t, tc.scored, got.score > 0)
			assert.Equal(t, tc.topic, got.topic)
		})
	}
}

func TestRankCandidates(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	in := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	ranked := rankCandidates([]candidate{
		{Title: "Robots in warehouses", URL: "https://a.example.com/1", Published: in},
		{Title: "OpenAI and Anthropic trade blows over AI safety", URL: "https://a.example.com/2", Published: in},
		{Title: "OpenAI and Anthropic trade blows over AI safety", URL: "https://a.example.com/2/", Published: in},
		{Title: "Robots are old news", URL: "https://a.example.com/3", Published: start.AddDate(0, 0, -3)},
		{Title: "Robots without a date", URL: "https://a.example.com/4"},
		{Title: "Robots from search", URL: "https://a.example.com/5", fromSearch: true},
		{Title: "", URL: "https://a.example.com/6", Published: in},
	}, start, end, 0)

	urls := make([]string, 0, len(ranked))
	for _, c := range ranked {
		urls = append(urls, c.URL)
	}
	assert.Equal(t, "https://a.example.com/2", urls[0])
	assert.ElementsMatch(t, []string{"https://a.example.com/1", "https://a.example.com/2", "https://a.example.com/5"}, urls)

	limited := rankCandidates([]candidate{
		{Title: "Robots one", URL: "https://b.example.com/1", Published: in},
		{Title: "Robots two", URL: "https://b.example.com/2", Published: in.Add(time.Hour)},
	}, start, end, 1)
	assert.Len(t, limited, 1)
	assert.Equal(t, "https://b.example.com/2", limited[0].URL)
}

func TestDiscoveryHelpers(t *testing.T) {
	now := time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", relativeAge(now.Add(-time.Hour), now))
	assert.Equal(t, "1 day ago", relativeAge(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "3 days ago", relativeAge(now.AddDate(0, 0, -3), now))
	assert.Empty(t, relativeAge(time.Time{}, now))

	assert.Equal(t, 2026, parsePublished("2026-02-03T10:00:00Z").Year())
	assert.Equal(t, time.February, parsePublished("Tue, 03 Feb 2026 10:00:00 +0000").Month())
	assert.Equal(t, 3, parsePublished("2026-02-03").Day())
	assert.True(t, parsePublished("last week").IsZero())

	assert.Equal(t, "reuters.com", hostSource("https://www.Reuters.com/world/x"))
	assert.Empty(t, hostSource("not a url"))

	assert.Equal(t, "card-2", cardID("", "!!!", 2))
	assert.Equal(t, "AI", tagName("ai"))
	assert.Equal(t, "Robotics", tagName("robotics"))
}
