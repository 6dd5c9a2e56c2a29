// Package search 定义通用的网页/新闻搜索接口
package search

import (
	"context"
	"errors"
)

// ErrNoResults 搜索没有返回任何结果
var ErrNoResults = errors.New("search returned no results")

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	MaxResults        int
	IncludeRawContent bool
	StartDate         string // Format: YYYY-MM-DD
	EndDate           string // Format: YYYY-MM-DD
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}

// Config 搜索配置
type Config struct {
	// Provider tavily | searxng, empty disables search
	Provider string        `yaml:"provider" default:""`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

type TavilyConfig struct {
	APIKey  string `yaml:"api-key"`
	BaseURL string `yaml:"base-url" default:"https://api.tavily.com/search"`
}

type SearXNGConfig struct {
	BaseURL string `yaml:"base-url"`
	// Timeout 秒
	Timeout int `yaml:"timeout" default:"30"`
}
