package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"go.uber.org/zap"
)

// Shortener TinyURL 短链客户端
type Shortener struct {
	client   *http.Client
	endpoint string
	prefix   string
	logger   *zap.Logger
}

// NewShortener 创建短链客户端
func NewShortener(cfg *Config, lg *zap.Logger) *Shortener {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Shortener{
		client:   newHTTPClient(timeout(cfg.ShortenTimeout, 5*time.Second)),
		endpoint: cfg.ShortenerURL,
		prefix:   cfg.ShortenPrefix,
		logger:   lg,
	}
}

// Shorten returns the short URL, or the original URL with ok=false when the service fails
// or answers with anything that does not look like one of its own links
// Shorten 返回短链；失败时返回原始链接且 ok 为 false
func (s *Shortener) Shorten(ctx context.Context, longURL string) (string, bool) {
	short, err := s.shorten(ctx, longURL)
	if err != nil {
		s.logger.Warn("shorten url failed, keeping original",
			zap.String(logger.FieldURL, longURL),
			zap.Error(err))
		return longURL, false
	}
	return short, true
}

func (s *Shortener) shorten(ctx context.Context, longURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?url="+url.QueryEscape(longURL), nil)
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request shortener")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}
	short := strings.TrimSpace(string(body))
	if !strings.HasPrefix(short, s.prefix) {
		return "", errors.Errorf("unexpected shortener response %q", short)
	}
	return short, nil
}
