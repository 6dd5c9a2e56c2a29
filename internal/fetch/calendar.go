package fetch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// CalendarHeader prefixes the scraped rows in the context handed to the model
const CalendarHeader = "Control Risks Geopolitical Calendar entries:\n"

// Calendar scrapes the geopolitical calendar table into model context
// Calendar 抓取地缘政治日历表格
type Calendar struct {
	client    *http.Client
	url       string
	userAgent string
	logger    *zap.Logger
}

// NewCalendar 创建日历抓取器
func NewCalendar(cfg *Config, lg *zap.Logger) *Calendar {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Calendar{
		client:    newHTTPClient(timeout(cfg.CalendarTimeout, 15*time.Second)),
		url:       cfg.CalendarURL,
		userAgent: cfg.CalendarUserAgent,
		logger:    lg,
	}
}

// Fetch returns every table row with at least two non-empty cells, cells joined by " | ".
// Any failure, or a page without such rows, yields "".
//
// Fetch 返回日历行文本，失败或无数据时返回空串
func (c *Calendar) Fetch(ctx context.Context) string {
	rows, err := c.rows(ctx)
	if err != nil {
		c.logger.Warn("scrape geopolitical calendar failed",
			zap.String(logger.FieldURL, c.url),
			zap.Error(err))
		return ""
	}
	if len(rows) == 0 {
		return ""
	}
	return CalendarHeader + strings.Join(rows, "\n")
}

func (c *Calendar) rows(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request calendar")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	var rows []string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			if text := spacedText(td); text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) >= 2 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	})
	return rows, nil
}

// spacedText joins the text nodes of s with a space at every element boundary,
// so "<b>Elections</b><br>in Peru" reads "Elections in Peru". Non-breaking
// spaces count as whitespace.
func spacedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		b.WriteByte(' ')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		b.WriteByte(' ')
	}
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return clean(b.String())
}
