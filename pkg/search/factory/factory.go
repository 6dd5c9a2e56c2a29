// Package factory 根据配置创建搜索实例
package factory

import (
	"fmt"
	"os"

	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"github.com/pulse-beyond/pulse-beyond/pkg/search/searxng"
	"github.com/pulse-beyond/pulse-beyond/pkg/search/tavily"
)

// NewSearcher returns nil, nil when no provider is configured and no Tavily key is available
// NewSearcher 根据配置创建搜索实例，未配置时返回 nil
func NewSearcher(cfg search.Config) (search.Searcher, error) {
	apiKey := cfg.Tavily.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}

	provider := cfg.Provider
	if provider == "" {
		if apiKey == "" {
			return nil, nil
		}
		provider = "tavily"
	}

	switch provider {
	case "tavily":
		if apiKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(apiKey, cfg.Tavily.BaseURL), nil
	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNG.BaseURL, cfg.SearXNG.Timeout), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
