package dao

import (
	"context"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/model"

	"gorm.io/gorm"
)

// eventRepository 实现 domain.EventRepository 接口
type eventRepository struct {
	dao *Dao
}

var _ domain.EventRepository = (*eventRepository)(nil)

// NewEventRepository 创建 EventRepository 实例
func NewEventRepository(dao *Dao) domain.EventRepository {
	return &eventRepository{dao: dao}
}

func (r *eventRepository) toDomain(m *model.EventItem) *domain.EventItem {
	if m == nil {
		return nil
	}
	return &domain.EventItem{
		ID:          m.ID,
		IssueID:     m.IssueID,
		Title:       m.Title,
		Date:        m.Date,
		Location:    m.Location,
		Description: m.Description,
		SourceURL:   m.SourceURL,
		Included:    m.Included,
		Order:       m.Order,
		ShortURL:    m.ShortURL,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *eventRepository) toModel(e *domain.EventItem) *model.EventItem {
	return &model.EventItem{
		ID:          e.ID,
		IssueID:     e.IssueID,
		Title:       e.Title,
		Date:        e.Date,
		Location:    e.Location,
		Description: e.Description,
		SourceURL:   e.SourceURL,
		Included:    e.Included,
		Order:       e.Order,
		ShortURL:    e.ShortURL,
		CreatedAt:   e.CreatedAt,
	}
}

func (r *eventRepository) list(db *gorm.DB) ([]*domain.EventItem, error) {
	var ms []*model.EventItem
	if err := db.Order("sort_order ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.EventItem, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Create 创建事件
func (r *eventRepository) Create(ctx context.Context, event *domain.EventItem) (*domain.EventItem, error) {
	m := r.toModel(event)
	m.ID = 0
	err := r.dao.ExecuteWrite(ctx, event.IssueID, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.EventItem, error) {
	var m model.EventItem
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *eventRepository) ListByIssue(ctx context.Context, issueID int64) ([]*domain.EventItem, error) {
	return r.list(r.dao.DB(ctx).Where("issue_id = ?", issueID))
}

func (r *eventRepository) ListIncluded(ctx context.Context, issueID int64) ([]*domain.EventItem, error) {
	return r.list(r.dao.DB(ctx).Where("issue_id = ? AND included = ?", issueID, true))
}

func (r *eventRepository) MaxOrder(ctx context.Context, issueID int64) (int, error) {
	return r.dao.maxOrder(ctx, &model.EventItem{}, issueID)
}

// Update 更新事件的可编辑字段
func (r *eventRepository) Update(ctx context.Context, event *domain.EventItem) (*domain.EventItem, error) {
	err := r.dao.updateByID(ctx, &model.EventItem{}, event.ID, map[string]any{
		"title":       event.Title,
		"date":        event.Date,
		"location":    event.Location,
		"description": event.Description,
		"source_url":  event.SourceURL,
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, event.ID)
}

func (r *eventRepository) UpdateIncluded(ctx context.Context, id int64, included bool) error {
	return r.dao.updateByID(ctx, &model.EventItem{}, id, map[string]any{"included": included})
}

// UpdateShortURL 保存短链，空串清除
func (r *eventRepository) UpdateShortURL(ctx context.Context, id int64, shortURL string) error {
	return r.dao.updateByID(ctx, &model.EventItem{}, id, map[string]any{"short_url": nullable(shortURL)})
}

// ReplaceAll 在同一事务中删除本期全部事件并写入新事件
func (r *eventRepository) ReplaceAll(ctx context.Context, issueID int64, events []*domain.EventItem) ([]*domain.EventItem, error) {
	ms := make([]*model.EventItem, 0, len(events))
	for _, e := range events {
		m := r.toModel(e)
		m.ID = 0
		m.IssueID = issueID
		ms = append(ms, m)
	}
	err := r.dao.ExecuteWrite(ctx, issueID, func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", issueID).Delete(&model.EventItem{}).Error; err != nil {
			return err
		}
		for _, m := range ms {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.EventItem, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.deleteByID(ctx, &model.EventItem{}, id)
}
