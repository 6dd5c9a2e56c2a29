package domain

import (
	"context"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
)

// IssueRepository 期刊仓储接口
type IssueRepository interface {
	// Create 创建期刊
	Create(ctx context.Context, issue *Issue) (*Issue, error)

	// GetByID 根据ID获取期刊
	GetByID(ctx context.Context, id int64) (*Issue, error)

	// Update 更新标题与发布日期
	Update(ctx context.Context, issue *Issue) (*Issue, error)

	// UpdateStep 更新当前步骤
	UpdateStep(ctx context.Context, id int64, step workflow.Step) error

	// Delete deletes the issue and every owned row in one transaction
	// Delete 删除期刊并级联删除全部子记录
	Delete(ctx context.Context, id int64) error

	// List 分页获取期刊，按创建时间倒序
	List(ctx context.Context, page, pageSize int) ([]*Issue, error)

	// Count 期刊总数
	Count(ctx context.Context) (int64, error)

	// ListOpen returns issues without any export, ordered by publish date ascending
	// ListOpen 获取尚未导出的期刊
	ListOpen(ctx context.Context) ([]*Issue, error)

	// ListByPublishRange 获取发布日期在区间内的期刊
	ListByPublishRange(ctx context.Context, start, end time.Time) ([]*Issue, error)
}

// LinkRepository 链接仓储接口
type LinkRepository interface {
	Create(ctx context.Context, link *LinkItem) (*LinkItem, error)
	GetByID(ctx context.Context, id int64) (*LinkItem, error)
	// ListByIssue 按 order 升序
	ListByIssue(ctx context.Context, issueID int64) ([]*LinkItem, error)
	// ListSelected 已选链接，按 order 升序
	ListSelected(ctx context.Context, issueID int64) ([]*LinkItem, error)
	// FindByURL 查找本期中相同 URL 的链接
	FindByURL(ctx context.Context, issueID int64, url string) (*LinkItem, error)
	CountByIssue(ctx context.Context, issueID int64) (int64, error)
	// MaxOrder 当前最大 order，无链接时为 -1
	MaxOrder(ctx context.Context, issueID int64) (int, error)
	UpdateToneNote(ctx context.Context, id int64, toneNote *string) error
	UpdateSelected(ctx context.Context, id int64, selected bool) error
	// ReplaceSelection sets selected=true for ids and false for every other link of the issue
	// ReplaceSelection 集合替换：仅 ids 中的链接为选中
	ReplaceSelection(ctx context.Context, issueID int64, ids []int64) error
	UpdateShortURL(ctx context.Context, id int64, shortURL string) error
	UpdateAudio(ctx context.Context, id int64, audioPath string, transcript *string) error
	Delete(ctx context.Context, id int64) error
}

// EventRepository 事件仓储接口
type EventRepository interface {
	Create(ctx context.Context, event *EventItem) (*EventItem, error)
	GetByID(ctx context.Context, id int64) (*EventItem, error)
	ListByIssue(ctx context.Context, issueID int64) ([]*EventItem, error)
	ListIncluded(ctx context.Context, issueID int64) ([]*EventItem, error)
	MaxOrder(ctx context.Context, issueID int64) (int, error)
	Update(ctx context.Context, event *EventItem) (*EventItem, error)
	UpdateIncluded(ctx context.Context, id int64, included bool) error
	UpdateShortURL(ctx context.Context, id int64, shortURL string) error
	// ReplaceAll 删除本期全部事件后写入新事件
	ReplaceAll(ctx context.Context, issueID int64, events []*EventItem) ([]*EventItem, error)
	Delete(ctx context.Context, id int64) error
}

// SectionRepository 章节仓储接口
type SectionRepository interface {
	Create(ctx context.Context, section *GeneratedSection) (*GeneratedSection, error)
	GetByID(ctx context.Context, id int64) (*GeneratedSection, error)
	// ListMain 正文章节，按 order 升序
	ListMain(ctx context.Context, issueID int64) ([]*GeneratedSection, error)
	// DeleteMain 删除本期全部正文章节
	DeleteMain(ctx context.Context, issueID int64) error
	// UpdateEdited writes only the edited overlay; content stays untouched
	// UpdateEdited 只写编辑层，不修改原始内容
	UpdateEdited(ctx context.Context, id int64, edited SectionContent) error
}

// ExportRepository 导出仓储接口
type ExportRepository interface {
	Create(ctx context.Context, export *Export) (*Export, error)
	// ListByIssue 按创建时间倒序
	ListByIssue(ctx context.Context, issueID int64) ([]*Export, error)
	Latest(ctx context.Context, issueID int64) (*Export, error)
	CountByIssue(ctx context.Context, issueID int64) (int64, error)
}

// ImageRepository 配图仓储接口
type ImageRepository interface {
	Create(ctx context.Context, image *GeneratedImage) (*GeneratedImage, error)
	ListByIssue(ctx context.Context, issueID int64) ([]*GeneratedImage, error)
	Latest(ctx context.Context, issueID int64) (*GeneratedImage, error)
	CountByIssue(ctx context.Context, issueID int64) (int64, error)
}
