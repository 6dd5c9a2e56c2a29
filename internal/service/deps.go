package service

import (
	"context"
	"io"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/fetch"
)

// Outbound collaborators. The fetch and ai packages provide the production implementations.

// MetadataFetcher 链接元数据抓取
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) fetch.Metadata
}

// URLShortener 短链服务
type URLShortener interface {
	Shorten(ctx context.Context, longURL string) (string, bool)
}

// AudioTranscriber 语音转写，失败时返回 nil
type AudioTranscriber interface {
	Transcribe(ctx context.Context, r io.Reader, filename string) *string
}

// CalendarSource 地缘政治日历，失败时返回空串
type CalendarSource interface {
	Fetch(ctx context.Context) string
}

// ArchiveSearcher 历史期刊检索
type ArchiveSearcher interface {
	Search(ctx context.Context, title, description, url string) string
}

// CoverImagePipeline 两阶段配图
type CoverImagePipeline interface {
	Generate(ctx context.Context, sectionText string) (*ai.GeneratedImage, error)
}

// FeedSource RSS/Atom 订阅源
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string, maxCount int) ([]fetch.FeedItem, error)
}

var (
	_ MetadataFetcher    = (*fetch.MetadataFetcher)(nil)
	_ URLShortener       = (*fetch.Shortener)(nil)
	_ AudioTranscriber   = (*fetch.Transcriber)(nil)
	_ CalendarSource     = (*fetch.Calendar)(nil)
	_ CoverImagePipeline = (*ai.ImagePipeline)(nil)
	_ FeedSource         = (*fetch.FeedReader)(nil)
)
