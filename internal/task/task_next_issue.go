package task

import (
	"context"

	"github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/service"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"

	"go.uber.org/zap"
)

// NextIssueTask creates the issue for the coming Sunday so the week starts with a workspace
// NextIssueTask 确保下一个周日的期刊已创建
type NextIssueTask struct {
	issues service.IssueService
	spec   string
	logger *zap.Logger
}

// NewNextIssueTask 创建任务
func NewNextIssueTask(issues service.IssueService, spec string, lg *zap.Logger) *NextIssueTask {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &NextIssueTask{issues: issues, spec: spec, logger: lg}
}

func init() {
	Register(func(a *app.App) (Task, error) {
		spec := a.Config().Schedule.NextIssue
		if spec == "" {
			return nil, nil
		}
		return NewNextIssueTask(a.IssueService, spec, a.Logger()), nil
	})
}

func (t *NextIssueTask) Name() string { return "NextIssue" }

func (t *NextIssueTask) Spec() string { return t.spec }

func (t *NextIssueTask) IsStartupRun() bool { return false }

// Run 执行任务
func (t *NextIssueTask) Run(ctx context.Context) error {
	issue, created, err := t.issues.EnsureUpcoming(ctx)
	if err != nil {
		return err
	}
	if created {
		t.logger.Info("upcoming issue created",
			zap.Int64(logger.FieldIssueID, issue.ID),
			zap.String("title", issue.Title))
	}
	return nil
}
