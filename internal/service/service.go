// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"gorm.io/gorm"
)

// Repositories 服务层使用的全部仓储
type Repositories struct {
	Issue   domain.IssueRepository
	Link    domain.LinkRepository
	Event   domain.EventRepository
	Section domain.SectionRepository
	Export  domain.ExportRepository
	Image   domain.ImageRepository
}

// dbError maps gorm.ErrRecordNotFound to notFound and anything else to ErrorDBQuery
// dbError 将记录不存在映射为 notFound，其余映射为数据库错误
func dbError(err error, notFound *code.Code) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return code.ErrorDBQuery.WithDetails(err.Error())
}

// loadIssue 获取期刊，不存在时返回 ErrorIssueNotFound
func (r *Repositories) loadIssue(ctx context.Context, id int64) (*domain.Issue, error) {
	issue, err := r.Issue.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err, code.ErrorIssueNotFound)
	}
	return issue, nil
}

// aggregate loads the issue with every owned collection plus the counters the workflow needs
// aggregate 加载期刊聚合及工作流快照
func (r *Repositories) aggregate(ctx context.Context, id int64) (*domain.IssueAggregate, workflow.Snapshot, error) {
	issue, err := r.loadIssue(ctx, id)
	if err != nil {
		return nil, workflow.Snapshot{}, err
	}

	agg := &domain.IssueAggregate{Issue: issue}
	if agg.Links, err = r.Link.ListByIssue(ctx, id); err != nil {
		return nil, workflow.Snapshot{}, dbError(err, code.ErrorLinkNotFound)
	}
	if agg.Events, err = r.Event.ListByIssue(ctx, id); err != nil {
		return nil, workflow.Snapshot{}, dbError(err, code.ErrorEventNotFound)
	}
	if agg.Sections, err = r.Section.ListMain(ctx, id); err != nil {
		return nil, workflow.Snapshot{}, dbError(err, code.ErrorSectionNotFound)
	}

	exports, err := r.Export.CountByIssue(ctx, id)
	if err != nil {
		return nil, workflow.Snapshot{}, code.ErrorDBQuery.WithDetails(err.Error())
	}
	images, err := r.Image.CountByIssue(ctx, id)
	if err != nil {
		return nil, workflow.Snapshot{}, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if exports > 0 {
		if agg.LatestExport, err = r.Export.Latest(ctx, id); err != nil {
			return nil, workflow.Snapshot{}, code.ErrorDBQuery.WithDetails(err.Error())
		}
	}
	if images > 0 {
		if agg.LatestImage, err = r.Image.Latest(ctx, id); err != nil {
			return nil, workflow.Snapshot{}, code.ErrorDBQuery.WithDetails(err.Error())
		}
	}

	return agg, agg.Snapshot(int(exports), int(images)), nil
}

// optString 去除首尾空白，空串返回 nil
func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// parsePublishDate accepts "2006-01-02" (09:00 local) or RFC3339
// parsePublishDate 解析发布日期
func parsePublishDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		t = t.Add(9 * time.Hour)
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, code.ErrorInvalidParams.WithDetails("publishDate must be YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
