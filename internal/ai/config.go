package ai

import (
	"os"
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/util"
)

// Config AI 配置
type Config struct {
	// Provider mock | openai | anthropic
	Provider string `yaml:"provider" default:"mock"`
	// Author 周报作者署名，用于提示词
	Author    string          `yaml:"author" default:"Roberto"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`

	// SectionTimeout 章节生成超时
	SectionTimeout string `yaml:"section-timeout" default:"60s"`
	// EventTimeout 单条事件描述超时
	EventTimeout string `yaml:"event-timeout" default:"30s"`
	// SearchEventsTimeout 搜索增强事件生成超时
	SearchEventsTimeout string `yaml:"search-events-timeout" default:"90s"`
	// ImageTimeout 配图生成超时
	ImageTimeout string `yaml:"image-timeout" default:"120s"`
}

// OpenAIConfig OpenAI 兼容接口配置
type OpenAIConfig struct {
	// APIKey 为空时读取环境变量 OPENAI_API_KEY
	APIKey      string  `yaml:"api-key"`
	BaseURL     string  `yaml:"base-url" default:"https://api.openai.com/v1"`
	Model       string  `yaml:"model" default:"gpt-4o"`
	EventModel  string  `yaml:"event-model" default:"gpt-4o-mini"`
	ImageModel  string  `yaml:"image-model" default:"dall-e-3"`
	Temperature float32 `yaml:"temperature" default:"0.7"`
}

// AnthropicConfig Claude 配置
type AnthropicConfig struct {
	// APIKey 为空时读取环境变量 ANTHROPIC_API_KEY
	APIKey       string  `yaml:"api-key"`
	Model        string  `yaml:"model" default:"claude-sonnet-4-5-20250929"`
	ConceptModel string  `yaml:"concept-model" default:"claude-haiku-4-5-20251001"`
	MaxTokens    int     `yaml:"max-tokens" default:"4096"`
	Temperature  float64 `yaml:"temperature" default:"0.7"`
}

// RateLimitConfig 对模型调用的限速
type RateLimitConfig struct {
	// RequestsPerMinute 每分钟请求数，0 表示不限
	RequestsPerMinute int `yaml:"requests-per-minute" default:"30"`
	Burst             int `yaml:"burst" default:"3"`
}

// OpenAIKey returns the configured key or OPENAI_API_KEY
func (c *Config) OpenAIKey() string {
	if c.OpenAI.APIKey != "" {
		return c.OpenAI.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// AnthropicKey returns the configured key or ANTHROPIC_API_KEY
func (c *Config) AnthropicKey() string {
	if c.Anthropic.APIKey != "" {
		return c.Anthropic.APIKey
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

func (c *Config) author() string {
	if c.Author == "" {
		return "Roberto"
	}
	return c.Author
}

func duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := util.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c *Config) sectionTimeout() time.Duration {
	return duration(c.SectionTimeout, 60*time.Second)
}

func (c *Config) eventTimeout() time.Duration {
	return duration(c.EventTimeout, 30*time.Second)
}

func (c *Config) searchEventsTimeout() time.Duration {
	return duration(c.SearchEventsTimeout, 90*time.Second)
}

func (c *Config) imageTimeout() time.Duration {
	return duration(c.ImageTimeout, 120*time.Second)
}
