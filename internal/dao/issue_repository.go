package dao

import (
	"context"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/model"
	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
	"github.com/pulse-beyond/pulse-beyond/pkg/app"

	"gorm.io/gorm"
)

// issueRepository 实现 domain.IssueRepository 接口
type issueRepository struct {
	dao *Dao
}

var _ domain.IssueRepository = (*issueRepository)(nil)

// NewIssueRepository 创建 IssueRepository 实例
func NewIssueRepository(dao *Dao) domain.IssueRepository {
	return &issueRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *issueRepository) toDomain(m *model.Issue) *domain.Issue {
	if m == nil {
		return nil
	}
	return &domain.Issue{
		ID:          m.ID,
		Title:       m.Title,
		PublishDate: m.PublishDate,
		CurrentStep: workflow.Step(m.CurrentStep),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *issueRepository) toModel(issue *domain.Issue) *model.Issue {
	step := issue.CurrentStep
	if !step.Valid() {
		step = workflow.StepLinks
	}
	return &model.Issue{
		ID:          issue.ID,
		Title:       issue.Title,
		PublishDate: issue.PublishDate,
		CurrentStep: string(step),
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

func (r *issueRepository) toDomainList(ms []*model.Issue) []*domain.Issue {
	out := make([]*domain.Issue, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out
}

// Create 创建期刊
func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	m := r.toModel(issue)
	m.ID = 0
	// a new issue has no queue of its own yet
	err := r.dao.ExecuteWrite(ctx, 0, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByID 根据ID获取期刊
func (r *issueRepository) GetByID(ctx context.Context, id int64) (*domain.Issue, error) {
	var m model.Issue
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Update 更新标题与发布日期
func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	err := r.dao.ExecuteWrite(ctx, issue.ID, func(tx *gorm.DB) error {
		res := tx.Model(&model.Issue{}).Where("id = ?", issue.ID).Updates(map[string]any{
			"title":        issue.Title,
			"publish_date": issue.PublishDate,
			"updated_at":   time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, issue.ID)
}

// UpdateStep 更新当前步骤
func (r *issueRepository) UpdateStep(ctx context.Context, id int64, step workflow.Step) error {
	return r.dao.ExecuteWrite(ctx, id, func(tx *gorm.DB) error {
		res := tx.Model(&model.Issue{}).Where("id = ?", id).Updates(map[string]any{
			"current_step": string(step),
			"updated_at":   time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete 删除期刊并级联删除全部子记录
func (r *issueRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.ExecuteWrite(ctx, id, func(tx *gorm.DB) error {
		children := []any{&model.GeneratedImage{}, &model.Export{}, &model.GeneratedSection{}, &model.EventItem{}, &model.LinkItem{}}
		for _, child := range children {
			if err := tx.Where("issue_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Issue{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List 分页获取期刊，按创建时间倒序
func (r *issueRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Issue, error) {
	var ms []*model.Issue
	db := r.dao.DB(ctx).Order("created_at DESC").Order("id DESC")
	if pageSize > 0 {
		db = db.Offset(app.GetPageOffset(page, pageSize)).Limit(pageSize)
	}
	if err := db.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// Count 期刊总数
func (r *issueRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.DB(ctx).Model(&model.Issue{}).Count(&n).Error
	return n, err
}

// ListOpen 获取尚未导出的期刊，按发布日期升序
func (r *issueRepository) ListOpen(ctx context.Context) ([]*domain.Issue, error) {
	var ms []*model.Issue
	sub := r.dao.DB(ctx).Model(&model.Export{}).Select("issue_id")
	err := r.dao.DB(ctx).
		Where("id NOT IN (?)", sub).
		Order("publish_date IS NULL").
		Order("publish_date ASC").
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListByPublishRange 获取发布日期在 [start, end] 内的期刊
func (r *issueRepository) ListByPublishRange(ctx context.Context, start, end time.Time) ([]*domain.Issue, error) {
	var ms []*model.Issue
	err := r.dao.DB(ctx).
		Where("publish_date >= ? AND publish_date <= ?", start, end).
		Order("publish_date ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}
