package dao

import (
	"context"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/model"

	"gorm.io/gorm"
)

// exportRepository 实现 domain.ExportRepository 接口，只追加
type exportRepository struct {
	dao *Dao
}

var _ domain.ExportRepository = (*exportRepository)(nil)

// NewExportRepository 创建 ExportRepository 实例
func NewExportRepository(dao *Dao) domain.ExportRepository {
	return &exportRepository{dao: dao}
}

func (r *exportRepository) toDomain(m *model.Export) *domain.Export {
	return &domain.Export{
		ID:        m.ID,
		IssueID:   m.IssueID,
		Format:    m.Format,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func (r *exportRepository) Create(ctx context.Context, export *domain.Export) (*domain.Export, error) {
	format := export.Format
	if format == "" {
		format = domain.ExportFormatTxt
	}
	m := &model.Export{IssueID: export.IssueID, Format: format, Content: export.Content}
	err := r.dao.ExecuteWrite(ctx, export.IssueID, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// ListByIssue 按创建时间倒序
func (r *exportRepository) ListByIssue(ctx context.Context, issueID int64) ([]*domain.Export, error) {
	var ms []*model.Export
	err := r.dao.DB(ctx).Where("issue_id = ?", issueID).Order("created_at DESC").Order("id DESC").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Export, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Latest 最新导出，没有导出时返回 nil, nil
func (r *exportRepository) Latest(ctx context.Context, issueID int64) (*domain.Export, error) {
	var ms []*model.Export
	err := r.dao.DB(ctx).Where("issue_id = ?", issueID).Order("created_at DESC").Order("id DESC").Limit(1).Find(&ms).Error
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	return r.toDomain(ms[0]), nil
}

func (r *exportRepository) CountByIssue(ctx context.Context, issueID int64) (int64, error) {
	return r.dao.countByIssue(ctx, &model.Export{}, issueID)
}

// imageRepository 实现 domain.ImageRepository 接口，只追加
type imageRepository struct {
	dao *Dao
}

var _ domain.ImageRepository = (*imageRepository)(nil)

// NewImageRepository 创建 ImageRepository 实例
func NewImageRepository(dao *Dao) domain.ImageRepository {
	return &imageRepository{dao: dao}
}

func (r *imageRepository) toDomain(m *model.GeneratedImage) *domain.GeneratedImage {
	return &domain.GeneratedImage{
		ID:        m.ID,
		IssueID:   m.IssueID,
		SectionID: m.SectionID,
		Prompt:    m.Prompt,
		ImageData: m.ImageData,
		MimeType:  m.MimeType,
		CreatedAt: m.CreatedAt,
	}
}

func (r *imageRepository) Create(ctx context.Context, image *domain.GeneratedImage) (*domain.GeneratedImage, error) {
	m := &model.GeneratedImage{
		IssueID:   image.IssueID,
		SectionID: image.SectionID,
		Prompt:    image.Prompt,
		ImageData: image.ImageData,
		MimeType:  image.MimeType,
	}
	err := r.dao.ExecuteWrite(ctx, image.IssueID, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *imageRepository) ListByIssue(ctx context.Context, issueID int64) ([]*domain.GeneratedImage, error) {
	var ms []*model.GeneratedImage
	err := r.dao.DB(ctx).Where("issue_id = ?", issueID).Order("created_at DESC").Order("id DESC").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GeneratedImage, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Latest 最新配图，没有时返回 nil, nil
func (r *imageRepository) Latest(ctx context.Context, issueID int64) (*domain.GeneratedImage, error) {
	var ms []*model.GeneratedImage
	err := r.dao.DB(ctx).Where("issue_id = ?", issueID).Order("created_at DESC").Order("id DESC").Limit(1).Find(&ms).Error
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	return r.toDomain(ms[0]), nil
}

func (r *imageRepository) CountByIssue(ctx context.Context, issueID int64) (int64, error) {
	return r.dao.countByIssue(ctx, &model.GeneratedImage{}, issueID)
}
