// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/dao"
	"github.com/pulse-beyond/pulse-beyond/internal/fetch"
	"github.com/pulse-beyond/pulse-beyond/internal/service"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"
	"github.com/pulse-beyond/pulse-beyond/pkg/workerpool"
	"github.com/pulse-beyond/pulse-beyond/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File      string                  `yaml:"-"` // 配置文件路径，不序列化
	Server    ServerConfig            `yaml:"server"`
	Log       LogConfig               `yaml:"log"`
	Database  DatabaseConfig          `yaml:"database"`
	App       AppSettings             `yaml:"app"`
	Tracer    TracerConfig            `yaml:"tracer"`
	AI        ai.Config               `yaml:"ai"`
	Search    search.Config           `yaml:"search"`
	Archive   ArchiveConfig           `yaml:"archive"`
	Fetch     fetch.Config            `yaml:"fetch"`
	Discovery service.DiscoveryConfig `yaml:"discovery"`
	Storage   storage.Config          `yaml:"storage"`
	Schedule  ScheduleConfig          `yaml:"schedule"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到控制台
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug | release | test
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 监听地址
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒），草稿生成会逐条调用模型，需要留足时间
	WriteTimeout int `yaml:"write-timeout" default:"600"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type sqlite | mysql | postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path     string `yaml:"path" default:"storage/database/pulse.sqlite3"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool   `yaml:"auto-migrate" default:"true"`
	Charset     string `yaml:"charset"`
	ParseTime   bool   `yaml:"parse-time" default:"true"`
	SSLMode     string `yaml:"ssl-mode"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数（SQLite 固定为 1）
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持 30m / 1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultPageSize 默认页面大小
	DefaultPageSize int `yaml:"default-page-size" default:"20"`
	// MaxPageSize 最大页面大小
	MaxPageSize int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout 默认请求超时（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// GenerateContextTimeout 草稿、事件、配图等模型接口的请求超时（秒）
	GenerateContextTimeout int `yaml:"generate-context-timeout" default:"600"`
	// TempPath 临时目录
	TempPath string `yaml:"temp-path" default:"storage/temp"`
	// MaxAudioSize 语音备忘大小上限，支持 KB / MB
	MaxAudioSize string `yaml:"max-audio-size" default:"25MB"`
	// AudioKeyPrefix 语音备忘存储路径前缀
	AudioKeyPrefix string `yaml:"audio-key-prefix" default:"audio"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// ArchiveConfig 历史期刊语料
type ArchiveConfig struct {
	// Path 历史期刊文本文件，缺失时检索结果为空
	Path string `yaml:"path" default:"storage/archive/past_newsletters.txt"`
}

// ScheduleConfig 定时任务配置
type ScheduleConfig struct {
	// Enabled 是否启动调度器
	Enabled bool `yaml:"enabled" default:"true"`
	// NextIssue 自动创建下一期的 cron 表达式，为空时关闭
	NextIssue string `yaml:"next-issue" default:"0 9 * * 1"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	loadDotEnv(filepath.Dir(realpath))

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置并填充默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}
	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}
	return c, nil
}

// loadDotEnv reads API keys from .env next to the config file and in the working directory.
// Variables already set in the environment win.
func loadDotEnv(dir string) {
	for _, p := range []string{filepath.Join(dir, ".env"), ".env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil && timeout > 0 {
		cfg.WriteTimeout = timeout
	}
	if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil && idleTime > 0 {
		cfg.IdleTimeout = idleTime
	}
	return cfg
}

// GetDatabaseConfig 转换为 dao 使用的数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		SSLMode:         c.Database.SSLMode,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// GetUploadConfig 获取语音备忘上传配置
func (c *AppConfig) GetUploadConfig() service.UploadConfig {
	cfg := service.UploadConfig{KeyPrefix: c.App.AudioKeyPrefix}
	cfg.MaxAudioSize = util.ParseSize(c.App.MaxAudioSize, 25<<20)
	return cfg
}

// ContextTimeout 默认请求超时
func (c *AppConfig) ContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GenerateTimeout 模型接口请求超时
func (c *AppConfig) GenerateTimeout() time.Duration {
	return time.Duration(c.App.GenerateContextTimeout) * time.Second
}
