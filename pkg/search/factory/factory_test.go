package factory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"github.com/pulse-beyond/pulse-beyond/pkg/search/searxng"
	"github.com/pulse-beyond/pulse-beyond/pkg/search/tavily"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearcher(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")

	s, err := NewSearcher(search.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = NewSearcher(search.Config{Tavily: search.TavilyConfig{APIKey: "k"}})
	require.NoError(t, err)
	assert.IsType(t, &tavily.Client{}, s)

	s, err = NewSearcher(search.Config{Provider: "searxng", SearXNG: search.SearXNGConfig{BaseURL: "http://localhost:8888"}})
	require.NoError(t, err)
	assert.IsType(t, &searxng.Client{}, s)

	_, err = NewSearcher(search.Config{Provider: "tavily"})
	assert.Error(t, err)
	_, err = NewSearcher(search.Config{Provider: "searxng"})
	assert.Error(t, err)
	_, err = NewSearcher(search.Config{Provider: "bing"})
	assert.Error(t, err)
}

func TestTavilyClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"q","results":[{"title":"G20","url":"https://g20.example","content":"summit","score":0.9,"published_date":"2026-02-16"}]}`))
	}))
	defer srv.Close()

	resp, err := tavily.NewClient("secret", srv.URL).Search(context.Background(), &search.Request{Query: "q", Topic: "news"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "G20", resp.Results[0].Title)
	assert.Equal(t, "2026-02-16", resp.Results[0].PublishedDate)
}

func TestTavilyClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := tavily.NewClient("bad", srv.URL).Search(context.Background(), &search.Request{Query: "q"})
	assert.Error(t, err)
}

func TestSearXNGClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "news", r.URL.Query().Get("categories"))
		_, _ = w.Write([]byte(`{"results":[{"title":"a","url":"https://a"},{"title":"b","url":"https://b"}]}`))
	}))
	defer srv.Close()

	resp, err := searxng.NewClient(srv.URL, 5).Search(context.Background(), &search.Request{Query: "q", Topic: "news", MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://a", resp.Results[0].URL)
}
