// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/archive"
	"github.com/pulse-beyond/pulse-beyond/internal/dao"
	"github.com/pulse-beyond/pulse-beyond/internal/fetch"
	"github.com/pulse-beyond/pulse-beyond/internal/service"
	pkgapp "github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"github.com/pulse-beyond/pulse-beyond/pkg/search/factory"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage"
	"github.com/pulse-beyond/pulse-beyond/pkg/workerpool"
	"github.com/pulse-beyond/pulse-beyond/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config    *AppConfig
	logger    *zap.Logger
	DB        *gorm.DB
	Dao       *dao.Dao
	StartTime time.Time

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	Repos *service.Repositories

	// 外部协作者
	Archive  *archive.Archive
	Searcher search.Searcher
	Storage  storage.Storager
	Provider ai.Provider

	// Service 层
	IssueService     service.IssueService
	LinkService      service.LinkService
	DraftService     service.DraftService
	EventService     service.EventService
	ShortenService   service.ShortenService
	ExportService    service.ExportService
	ImageService     service.ImageService
	DiscoveryService service.DiscoveryService

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	ctx := context.Background()
	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	pkgapp.DefaultPaginationConfig = pkgapp.PaginationConfig{
		DefaultPageSize: cfg.App.DefaultPageSize,
		MaxPageSize:     cfg.App.MaxPageSize,
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化 DAO（使用依赖注入）
	dbConfig := cfg.GetDatabaseConfig()
	d, err := dao.New(db,
		dao.WithConfig(&dbConfig),
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueueMgr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init dao: %w", err)
	}
	a.Dao = d

	// 初始化 Repository 层
	a.Repos = &service.Repositories{
		Issue:   dao.NewIssueRepository(a.Dao),
		Link:    dao.NewLinkRepository(a.Dao),
		Event:   dao.NewEventRepository(a.Dao),
		Section: dao.NewSectionRepository(a.Dao),
		Export:  dao.NewExportRepository(a.Dao),
		Image:   dao.NewImageRepository(a.Dao),
	}

	// 外部协作者：缺少可选配置时降级，不阻止启动
	a.Archive = archive.New(cfg.Archive.Path, logger)

	if a.Searcher, err = factory.NewSearcher(cfg.Search); err != nil {
		logger.Warn("search disabled", zap.Error(err))
		a.Searcher = nil
	}

	if a.Storage, err = storage.NewClient(ctx, &cfg.Storage); err != nil {
		logger.Warn("voice memo storage disabled", zap.String("type", cfg.Storage.Type), zap.Error(err))
		a.Storage = nil
	}

	limiter := ai.NewRateLimiter(cfg.AI.RateLimit)
	if a.Provider, err = ai.NewProvider(ctx, &cfg.AI, a.Searcher, limiter, logger); err != nil {
		return nil, fmt.Errorf("failed to init ai provider: %w", err)
	}

	// 配图与卡片撰写在缺少密钥时关闭，相关接口返回配置缺失
	var pipeline service.CoverImagePipeline
	if p, err := ai.NewImagePipelineFromConfig(ctx, &cfg.AI, limiter, logger); err != nil {
		logger.Warn("image generation disabled", zap.Error(err))
	} else if p != nil {
		pipeline = p
	}

	completer, err := ai.NewCompleter(ctx, &cfg.AI, limiter)
	if err != nil {
		logger.Warn("discovery framing falls back to local cards", zap.Error(err))
		completer = nil
	}

	var transcriber service.AudioTranscriber
	if t := fetch.NewTranscriber(&cfg.Fetch, cfg.AI.OpenAIKey(), cfg.AI.OpenAI.BaseURL, logger); t.Enabled() {
		transcriber = t
	}

	var feeds service.FeedSource
	if len(cfg.Discovery.Feeds) > 0 {
		feeds = fetch.NewFeedReader(&cfg.Fetch)
	}

	// 初始化 Service 层（依赖注入）
	a.IssueService = service.NewIssueService(a.Repos, logger)
	a.LinkService = service.NewLinkService(a.Repos, fetch.NewMetadataFetcher(&cfg.Fetch, logger), transcriber, a.Storage, cfg.GetUploadConfig(), logger)
	a.DraftService = service.NewDraftService(a.Repos, a.Provider, a.Archive, logger)
	a.EventService = service.NewEventService(a.Repos, a.Provider, fetch.NewCalendar(&cfg.Fetch, logger), logger)
	a.ShortenService = service.NewShortenService(a.Repos, fetch.NewShortener(&cfg.Fetch, logger), a.workerPool, logger)
	a.ExportService = service.NewExportService(a.Repos, logger)
	a.ImageService = service.NewImageService(a.Repos, pipeline, logger)
	a.DiscoveryService = service.NewDiscoveryService(feeds, a.Searcher, completer, a.LinkService, cfg.Discovery, cfg.AI.Author, logger)

	logger.Info("App container initialized successfully",
		zap.String("aiProvider", a.Provider.Name()),
		zap.Bool("search", a.Searcher != nil),
		zap.Bool("storage", a.Storage != nil),
		zap.Bool("transcribe", transcriber != nil),
		zap.Bool("images", pipeline != nil),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsProductionMode 是否为生产模式
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Write Queue Manager -> 后台任务 -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 4. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
