package service

import (
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/util"
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Author    string          // Newsletter author used in prompts // 提示词中的作者名
	Upload    UploadConfig    // Voice memo upload config // 语音上传配置
	Discovery DiscoveryConfig // Discovery feed config // 选题发现配置
}

// UploadConfig voice memo upload configuration
// UploadConfig 语音备忘上传配置
type UploadConfig struct {
	MaxAudioSize int64  // Max audio size in bytes, 0 means 25MB // 音频大小上限（字节），0 表示 25MB
	KeyPrefix    string // Storage key prefix // 存储路径前缀
}

// DiscoveryConfig discovery feed configuration
// DiscoveryConfig 选题发现配置
type DiscoveryConfig struct {
	Feeds         []string `yaml:"feeds"`                          // RSS/Atom feed URLs // 订阅源地址
	FeedItems     int      `yaml:"feed-items" default:"15"`        // Items read per feed // 每个订阅源读取条数
	Queries       []string `yaml:"queries"`                        // News search queries // 新闻搜索关键词
	SearchResults int      `yaml:"search-results" default:"8"`     // Results per query // 每个关键词的结果数
	MaxCandidates int      `yaml:"max-candidates" default:"40"`    // Candidates handed to the model // 交给模型的候选上限
	MaxCards      int      `yaml:"max-cards" default:"15"`         // Cards returned // 返回卡片上限
	CacheTTL      string   `yaml:"cache-ttl" default:"1h"`         // Card cache lifetime // 卡片缓存时长
	Model         string   `yaml:"model"`                          // Framing model, empty uses the provider default // 卡片撰写模型
	Timeout       string   `yaml:"timeout" default:"90s"`          // Framing timeout // 卡片撰写超时
	Schedule      string   `yaml:"schedule" default:"0 */6 * * *"` // Background refresh cron, empty disables // 后台刷新计划，空为关闭
}

const defaultMaxAudioSize = 25 << 20

func (c UploadConfig) maxAudioSize() int64 {
	if c.MaxAudioSize <= 0 {
		return defaultMaxAudioSize
	}
	return c.MaxAudioSize
}

func (c DiscoveryConfig) cacheTTL() time.Duration {
	if d, err := util.ParseDuration(c.CacheTTL); err == nil {
		return d
	}
	return time.Hour
}

func (c DiscoveryConfig) timeout() time.Duration {
	if d, err := util.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 90 * time.Second
}

// refreshTimeout 覆盖抓取与模型撰写两个阶段
func (c DiscoveryConfig) refreshTimeout() time.Duration {
	return 2 * c.timeout()
}
