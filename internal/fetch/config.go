// Package fetch talks to the outside web: page metadata, URL shortening, the geopolitical
// calendar, audio transcription and RSS feeds. Every client degrades to a zero value on failure.
//
// Package fetch 外部网页访问：元数据、短链、日历、转写、RSS；失败时降级为零值
package fetch

import (
	"net/http"
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/util"
)

const (
	// maxBodySize 读取网页正文的上限
	maxBodySize = 4 << 20
)

// Config 外部抓取配置
type Config struct {
	// UserAgent 抓取链接元数据时使用的 UA
	UserAgent       string `yaml:"user-agent" default:"Mozilla/5.0 (compatible; SnapshotBuilder/1.0; +https://example.com)"`
	MetadataTimeout string `yaml:"metadata-timeout" default:"8s"`

	ShortenerURL   string `yaml:"shortener-url" default:"https://tinyurl.com/api-create.php"`
	ShortenPrefix  string `yaml:"shorten-prefix" default:"https://tinyurl.com/"`
	ShortenTimeout string `yaml:"shorten-timeout" default:"5s"`

	CalendarURL       string `yaml:"calendar-url" default:"https://www.controlrisks.com/our-thinking/geopolitical-calendar"`
	CalendarUserAgent string `yaml:"calendar-user-agent" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"`
	CalendarTimeout   string `yaml:"calendar-timeout" default:"15s"`

	TranscribeModel   string `yaml:"transcribe-model" default:"whisper-1"`
	TranscribeTimeout string `yaml:"transcribe-timeout" default:"60s"`

	FeedTimeout string `yaml:"feed-timeout" default:"20s"`
}

func timeout(s string, fallback time.Duration) time.Duration {
	d, err := util.ParseDuration(s)
	if s == "" || err != nil || d <= 0 {
		return fallback
	}
	return d
}

func newHTTPClient(d time.Duration) *http.Client {
	return &http.Client{Timeout: d}
}
