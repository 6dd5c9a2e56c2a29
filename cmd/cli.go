package cmd

import (
	"fmt"

	internalApp "github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/dao"
)

// openApp builds an app container for one-shot CLI commands.
// The scheduler and HTTP servers are not started.
// openApp 为一次性子命令构建应用容器，不启动调度器与 HTTP 服务
func openApp(configPath string) (*internalApp.App, error) {
	path, err := resolveConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg, _, err := internalApp.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := initStorageWithConfig(cfg); err != nil {
		return nil, err
	}

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), bootstrapLogger)
	if err != nil {
		return nil, fmt.Errorf("initDatabase: %w", err)
	}
	return internalApp.NewApp(cfg, bootstrapLogger, db)
}
