package task

import (
	"context"

	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/service"
)

// DiscoveryRefreshTask rebuilds the discovery cards in the background so the
// brain dump page does not wait on feeds and the model
// DiscoveryRefreshTask 后台刷新选题卡片缓存
type DiscoveryRefreshTask struct {
	discovery service.DiscoveryService
	spec      string
}

// NewDiscoveryRefreshTask 创建任务
func NewDiscoveryRefreshTask(discovery service.DiscoveryService, spec string) *DiscoveryRefreshTask {
	return &DiscoveryRefreshTask{discovery: discovery, spec: spec}
}

func init() {
	Register(func(a *app.App) (Task, error) {
		cfg := a.Config().Discovery
		if cfg.Schedule == "" {
			return nil, nil
		}
		// nothing to gather without feeds or a search backend with queries
		if len(cfg.Feeds) == 0 && (a.Searcher == nil || len(cfg.Queries) == 0) {
			return nil, nil
		}
		return NewDiscoveryRefreshTask(a.DiscoveryService, cfg.Schedule), nil
	})
}

func (t *DiscoveryRefreshTask) Name() string { return "DiscoveryRefresh" }

func (t *DiscoveryRefreshTask) Spec() string { return t.spec }

func (t *DiscoveryRefreshTask) IsStartupRun() bool { return true }

// Run 执行任务
func (t *DiscoveryRefreshTask) Run(ctx context.Context) error {
	return t.discovery.Refresh(ctx)
}
