package dao

import (
	"context"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/model"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sectionRepository 实现 domain.SectionRepository 接口
type sectionRepository struct {
	dao *Dao
}

var _ domain.SectionRepository = (*sectionRepository)(nil)

// NewSectionRepository 创建 SectionRepository 实例
func NewSectionRepository(dao *Dao) domain.SectionRepository {
	return &sectionRepository{dao: dao}
}

func (r *sectionRepository) toDomain(m *model.GeneratedSection) (*domain.GeneratedSection, error) {
	s := &domain.GeneratedSection{
		ID:          m.ID,
		IssueID:     m.IssueID,
		LinkItemID:  m.LinkItemID,
		SectionType: m.SectionType,
		Order:       m.Order,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if err := sonic.UnmarshalString(m.Content, &s.Content); err != nil {
		return nil, errors.Wrapf(err, "decode section %d content", m.ID)
	}
	if m.EditedContent != nil && *m.EditedContent != "" {
		var edited domain.SectionContent
		if err := sonic.UnmarshalString(*m.EditedContent, &edited); err != nil {
			return nil, errors.Wrapf(err, "decode section %d edited content", m.ID)
		}
		s.EditedContent = &edited
	}
	return s, nil
}

func encodeContent(c domain.SectionContent) (string, error) {
	if c.TitleOptions == nil {
		c.TitleOptions = []string{}
	}
	return sonic.MarshalString(c)
}

// Create 创建章节
func (r *sectionRepository) Create(ctx context.Context, section *domain.GeneratedSection) (*domain.GeneratedSection, error) {
	content, err := encodeContent(section.Content)
	if err != nil {
		return nil, errors.Wrap(err, "encode section content")
	}
	sectionType := section.SectionType
	if sectionType == "" {
		sectionType = domain.SectionTypeMain
	}
	m := &model.GeneratedSection{
		IssueID:     section.IssueID,
		LinkItemID:  section.LinkItemID,
		SectionType: sectionType,
		Content:     content,
		Order:       section.Order,
	}
	if section.EditedContent != nil {
		edited, err := encodeContent(*section.EditedContent)
		if err != nil {
			return nil, errors.Wrap(err, "encode edited content")
		}
		m.EditedContent = &edited
	}

	err = r.dao.ExecuteWrite(ctx, section.IssueID, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m)
}

func (r *sectionRepository) GetByID(ctx context.Context, id int64) (*domain.GeneratedSection, error) {
	var m model.GeneratedSection
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m)
}

// ListMain 正文章节，按 order 升序
func (r *sectionRepository) ListMain(ctx context.Context, issueID int64) ([]*domain.GeneratedSection, error) {
	var ms []*model.GeneratedSection
	err := r.dao.DB(ctx).
		Where("issue_id = ? AND section_type = ?", issueID, domain.SectionTypeMain).
		Order("sort_order ASC").Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GeneratedSection, 0, len(ms))
	for _, m := range ms {
		s, err := r.toDomain(m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DeleteMain 删除本期全部正文章节
func (r *sectionRepository) DeleteMain(ctx context.Context, issueID int64) error {
	return r.dao.ExecuteWrite(ctx, issueID, func(tx *gorm.DB) error {
		return tx.Where("issue_id = ? AND section_type = ?", issueID, domain.SectionTypeMain).
			Delete(&model.GeneratedSection{}).Error
	})
}

// UpdateEdited 只写编辑层
func (r *sectionRepository) UpdateEdited(ctx context.Context, id int64, edited domain.SectionContent) error {
	encoded, err := encodeContent(edited)
	if err != nil {
		return errors.Wrap(err, "encode edited content")
	}
	return r.dao.updateByID(ctx, &model.GeneratedSection{}, id, map[string]any{
		"edited_content": encoded,
		"updated_at":     time.Now(),
	})
}
