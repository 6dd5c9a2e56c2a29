// Package domain 定义领域模型和仓储接口
package domain

import (
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
)

// Issue 期刊（聚合根）
type Issue struct {
	ID          int64
	Title       string
	PublishDate *time.Time
	CurrentStep workflow.Step
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HeaderDate 导出抬头日期，格式 "Feb 08, 2026"
func (i *Issue) HeaderDate() (string, bool) {
	if i.PublishDate == nil {
		return "", false
	}
	return i.PublishDate.Format("Jan 02, 2006"), true
}

// IssueAggregate is an issue with every owned collection loaded in display order
// IssueAggregate 期刊及其全部子集合
type IssueAggregate struct {
	Issue        *Issue
	Links        []*LinkItem
	Events       []*EventItem
	Sections     []*GeneratedSection
	LatestExport *Export
	LatestImage  *GeneratedImage
}

// Snapshot 根据已加载的数据计算工作流快照
func (a *IssueAggregate) Snapshot(exports, images int) workflow.Snapshot {
	snap := workflow.Snapshot{
		Links:   len(a.Links),
		Exports: exports,
		Images:  images,
	}
	for _, l := range a.Links {
		if l.Selected {
			snap.Selected++
			if l.HasShortURL() {
				snap.SelectedShortened++
			}
		}
	}
	for _, e := range a.Events {
		if e.Included {
			snap.IncludedEvents++
		}
	}
	for _, s := range a.Sections {
		if s.SectionType == SectionTypeMain {
			snap.MainSections++
		}
	}
	return snap
}
