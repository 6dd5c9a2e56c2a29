package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"
	"go.uber.org/zap"
)

// Metadata 链接元数据，抓取失败时字段为空
type Metadata struct {
	Title       string
	Description string
}

// MetadataFetcher reads <title> and the description meta tags of a page, with readability as a
// fallback for pages that carry neither
// MetadataFetcher 抓取网页标题与描述
type MetadataFetcher struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewMetadataFetcher 创建元数据抓取器
func NewMetadataFetcher(cfg *Config, lg *zap.Logger) *MetadataFetcher {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &MetadataFetcher{
		client:    newHTTPClient(timeout(cfg.MetadataTimeout, 8*time.Second)),
		userAgent: cfg.UserAgent,
		logger:    lg,
	}
}

// Fetch never returns an error; blocked pages, timeouts and non-2xx answers give empty metadata
// Fetch 失败时返回空元数据
func (f *MetadataFetcher) Fetch(ctx context.Context, rawURL string) Metadata {
	md, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.logger.Warn("fetch url metadata failed",
			zap.String(logger.FieldURL, rawURL),
			zap.Error(err))
		return Metadata{}
	}
	return md
}

func (f *MetadataFetcher) fetch(ctx context.Context, rawURL string) (Metadata, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "parse url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "request page")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Metadata{}, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Metadata{}, errors.Wrap(err, "read page")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Metadata{}, errors.Wrap(err, "parse html")
	}

	md := Metadata{
		Title:       clean(doc.Find("title").First().Text()),
		Description: metaContent(doc, `meta[name="description"]`),
	}
	if md.Description == "" {
		md.Description = metaContent(doc, `meta[property="og:description"]`)
	}

	if md.Title == "" || md.Description == "" {
		if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
			if md.Title == "" {
				md.Title = clean(article.Title)
			}
			if md.Description == "" {
				md.Description = clean(article.Excerpt)
			}
		}
	}
	return md, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return clean(content)
}

// clean collapses runs of whitespace. goquery decodes one level of entities,
// pages that double-encode ("&amp;amp;") need the second pass
func clean(s string) string {
	return util.DecodeEntities(strings.Join(strings.Fields(s), " "))
}
