package routers

import (
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/middleware"
	"github.com/pulse-beyond/pulse-beyond/internal/routers/api_router"
	"github.com/pulse-beyond/pulse-beyond/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// model-backed endpoints share the provider quota, so they get small buckets
func newMethodLimiters() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{Key: "/api/draft", FillInterval: time.Minute, Capacity: 5, Quantum: 5},
		limiter.BucketRule{Key: "/api/image", FillInterval: time.Minute, Capacity: 5, Quantum: 5},
		limiter.BucketRule{Key: "/api/events/fetch", FillInterval: time.Minute, Capacity: 5, Quantum: 5},
		limiter.BucketRule{Key: "/api/discovery/cards", FillInterval: time.Minute, Capacity: 10, Quantum: 10},
	)
}

// NewRouter 创建 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()
	generateTimeout := cfg.GenerateTimeout()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(newMethodLimiters()))
		api.Use(middleware.ContextTimeout(cfg.ContextTimeout(), map[string]time.Duration{
			"/api/draft":         generateTimeout,
			"/api/image":         generateTimeout,
			"/api/events/fetch":  generateTimeout,
			"/api/discovery":     generateTimeout,
			"/api/links/shorten": generateTimeout,
		}))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		healthHandler := api_router.NewHealthHandler(appContainer)
		issueHandler := api_router.NewIssueHandler(appContainer)
		linkHandler := api_router.NewLinkHandler(appContainer)
		draftHandler := api_router.NewDraftHandler(appContainer)
		eventHandler := api_router.NewEventHandler(appContainer)
		exportHandler := api_router.NewExportHandler(appContainer)
		discoveryHandler := api_router.NewDiscoveryHandler(appContainer)

		api.GET("/health", healthHandler.Check)
		api.GET("/version", healthHandler.Version)

		// 期刊
		api.POST("/issue", issueHandler.Create)
		api.GET("/issue", issueHandler.Get)
		api.PUT("/issue", issueHandler.Update)
		api.DELETE("/issue", issueHandler.Delete)
		api.PUT("/issue/step", issueHandler.SetStep)
		api.POST("/issue/advance", issueHandler.Advance)
		api.GET("/issues", issueHandler.List)
		api.GET("/issues/open", issueHandler.Open)

		// 链接
		api.POST("/link", linkHandler.Add)
		api.PUT("/link/tone", linkHandler.UpdateTone)
		api.PUT("/link/toggle", linkHandler.Toggle)
		api.DELETE("/link", linkHandler.Remove)
		api.POST("/link/audio", linkHandler.UploadAudio)
		api.POST("/links/select", linkHandler.SelectFinal)

		// 草稿
		api.POST("/draft", draftHandler.Generate)
		api.PUT("/section/title", draftHandler.SelectTitle)
		api.PUT("/section/content", draftHandler.UpdateContent)
		api.GET("/section/diff", draftHandler.Diff)

		// 事件
		api.POST("/events/fetch", eventHandler.Fetch)
		api.POST("/event", eventHandler.Add)
		api.PUT("/event", eventHandler.Update)
		api.PUT("/event/toggle", eventHandler.Toggle)
		api.DELETE("/event", eventHandler.Remove)

		// 短链、导出、配图
		api.POST("/links/shorten", exportHandler.Shorten)
		api.POST("/export", exportHandler.Build)
		api.GET("/export/preview", exportHandler.Preview)
		api.GET("/exports", exportHandler.List)
		api.POST("/image", exportHandler.GenerateImage)
		api.GET("/images", exportHandler.ListImages)

		// 历史期刊与选题
		api.GET("/archive/topics", discoveryHandler.ArchiveTopics)
		api.GET("/archive/search", discoveryHandler.ArchiveSearch)
		api.GET("/discovery/cards", discoveryHandler.Cards)
		api.POST("/discovery/add", discoveryHandler.Add)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
