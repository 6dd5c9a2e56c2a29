package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		UserAgent:         "test-agent",
		MetadataTimeout:   "2s",
		ShortenPrefix:     "https://tinyurl.com/",
		ShortenTimeout:    "2s",
		CalendarUserAgent: "calendar-agent",
		CalendarTimeout:   "2s",
		TranscribeModel:   "whisper-1",
		TranscribeTimeout: "2s",
		FeedTimeout:       "2s",
	}
}

func TestMetadataFetcher(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/article":
			fmt.Fprint(w, `<html><head><title>  Chips &amp; the   &quot;New&quot; Order </title>
<meta name="description" content="Taiwan&#39;s foundries lead"></head><body></body></html>`)
		case "/double":
			fmt.Fprint(w, `<html><head><title>Tom &amp;amp; Jerry</title>
<meta name="description" content="x"></head><body></body></html>`)
		case "/og":
			fmt.Fprint(w, `<html><head><title>OG page</title>
<meta property="og:description" content="From open graph"></head><body></body></html>`)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	f := NewMetadataFetcher(testConfig(), nil)
	ctx := context.Background()

	md := f.Fetch(ctx, srv.URL+"/article")
	assert.Equal(t, `Chips & the "New" Order`, md.Title)
	assert.Equal(t, "Taiwan's foundries lead", md.Description)
	assert.Equal(t, "test-agent", gotUA)

	md = f.Fetch(ctx, srv.URL+"/double")
	assert.Equal(t, "Tom & Jerry", md.Title)

	md = f.Fetch(ctx, srv.URL+"/og")
	assert.Equal(t, "OG page", md.Title)
	assert.Equal(t, "From open graph", md.Description)

	assert.Equal(t, Metadata{}, f.Fetch(ctx, srv.URL+"/blocked"))
	assert.Equal(t, Metadata{}, f.Fetch(ctx, "http://127.0.0.1:0/unreachable"))
}

func TestShortener(t *testing.T) {
	var gotQuery string
	mode := "ok"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("url")
		switch mode {
		case "ok":
			fmt.Fprint(w, "https://tinyurl.com/abc123")
		case "junk":
			fmt.Fprint(w, "Error")
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.ShortenerURL = srv.URL + "/api-create.php"
	s := NewShortener(cfg, nil)
	ctx := context.Background()

	long := "https://example.com/a?b=c&d=e"
	short, ok := s.Shorten(ctx, long)
	assert.True(t, ok)
	assert.Equal(t, "https://tinyurl.com/abc123", short)
	assert.Equal(t, long, gotQuery)

	mode = "junk"
	short, ok = s.Shorten(ctx, long)
	assert.False(t, ok)
	assert.Equal(t, long, short)

	mode = "fail"
	short, ok = s.Shorten(ctx, long)
	assert.False(t, ok)
	assert.Equal(t, long, short)
}

func TestCalendar(t *testing.T) {
	page := `<html><body><table>
<tr><th>Date</th><th>Event</th></tr>
<tr><td>17 Feb</td><td><b>Elections</b><br>in Peru</td><td>Peru</td></tr>
<tr><td>18 Feb</td><td>   </td></tr>
<tr><td>19&nbsp;Feb</td><td>EU summit &amp; more</td></tr>
</table></body></html>`
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.CalendarURL = srv.URL
	got := NewCalendar(cfg, nil).Fetch(context.Background())
	assert.Equal(t, CalendarHeader+"17 Feb | Elections in Peru | Peru\n19 Feb | EU summit & more", got)
	assert.Equal(t, "calendar-agent", gotUA)

	page = "<html><body><p>nothing</p></body></html>"
	assert.Equal(t, "", NewCalendar(cfg, nil).Fetch(context.Background()))

	cfg.CalendarURL = "http://127.0.0.1:0/"
	assert.Equal(t, "", NewCalendar(cfg, nil).Fetch(context.Background()))
}

func TestSpacedText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td><b>Feb 17</b><br>Paris<i>,</i>&nbsp;France</td></tr></table>`))
	require.NoError(t, err)
	assert.Equal(t, "Feb 17 Paris , France", spacedText(doc.Find("td")))
}

func TestAudioTypes(t *testing.T) {
	assert.Equal(t, "m4a", AudioExt("memo.M4A"))
	assert.Equal(t, "webm", AudioExt("memo"))
	assert.Equal(t, "audio/mp4", AudioMimeType("m4a"))
	assert.Equal(t, "audio/mpeg", AudioMimeType("mp3"))
	assert.Equal(t, "audio/flac", AudioMimeType("flac"))
	assert.Equal(t, "audio/webm", AudioMimeType("xyz"))
}

func TestTranscriber(t *testing.T) {
	ctx := context.Background()

	disabled := NewTranscriber(testConfig(), "", "", nil)
	assert.False(t, disabled.Enabled())
	assert.Nil(t, disabled.Transcribe(ctx, strings.NewReader("x"), "a.webm"))

	tr := NewTranscriber(testConfig(), "", "", nil)
	var gotModel string
	tr.api = func(ctx context.Context, params openai.AudioTranscriptionNewParams) (string, error) {
		gotModel = string(params.Model)
		b, err := io.ReadAll(params.File)
		if err != nil {
			return "", err
		}
		return "  " + string(b) + "  \n", nil
	}
	got := tr.Transcribe(ctx, strings.NewReader("hello world"), "memo.mp3")
	require.NotNil(t, got)
	assert.Equal(t, "hello world", *got)
	assert.Equal(t, "whisper-1", gotModel)

	tr.api = func(ctx context.Context, params openai.AudioTranscriptionNewParams) (string, error) {
		return "   ", nil
	}
	assert.Nil(t, tr.Transcribe(ctx, strings.NewReader("x"), "memo.mp3"))

	tr.api = func(ctx context.Context, params openai.AudioTranscriptionNewParams) (string, error) {
		return "", errors.New("whisper down")
	}
	assert.Nil(t, tr.Transcribe(ctx, strings.NewReader("x"), "memo.mp3"))
}

func TestFeedReader(t *testing.T) {
	rss := `<?xml version="1.0"?><rss version="2.0"><channel><title>Tech Wire</title>
<item><title>Chip export rules</title><link>https://wire.example/chips</link>
<description>&lt;p&gt;New &lt;b&gt;rules&lt;/b&gt;&lt;/p&gt;</description>
<pubDate>Mon, 16 Feb 2026 10:00:00 GMT</pubDate></item>
<item><title>No link</title></item>
<item><title>Second</title><link>https://wire.example/2</link></item>
<item><title>Third</title><link>https://wire.example/3</link></item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	items, err := NewFeedReader(testConfig()).Fetch(context.Background(), srv.URL, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chip export rules", items[0].Title)
	assert.Equal(t, "Tech Wire", items[0].Source)
	assert.Equal(t, "New rules", items[0].Summary)
	assert.Equal(t, 2026, items[0].PublishedAt.Year())
	assert.Equal(t, "https://wire.example/2", items[1].URL)

	_, err = NewFeedReader(testConfig()).Fetch(context.Background(), "http://127.0.0.1:0/feed", 5)
	assert.Error(t, err)
}
