package dao

import (
	"context"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/model"

	"gorm.io/gorm"
)

// linkRepository 实现 domain.LinkRepository 接口
type linkRepository struct {
	dao *Dao
}

var _ domain.LinkRepository = (*linkRepository)(nil)

// NewLinkRepository 创建 LinkRepository 实例
func NewLinkRepository(dao *Dao) domain.LinkRepository {
	return &linkRepository{dao: dao}
}

func (r *linkRepository) toDomain(m *model.LinkItem) *domain.LinkItem {
	if m == nil {
		return nil
	}
	return &domain.LinkItem{
		ID:              m.ID,
		IssueID:         m.IssueID,
		URL:             m.URL,
		MetaTitle:       m.MetaTitle,
		MetaDescription: m.MetaDescription,
		ToneNote:        m.ToneNote,
		AudioPath:       m.AudioPath,
		AudioTranscript: m.AudioTranscript,
		Selected:        m.Selected,
		ShortURL:        m.ShortURL,
		Order:           m.Order,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *linkRepository) toModel(l *domain.LinkItem) *model.LinkItem {
	return &model.LinkItem{
		ID:              l.ID,
		IssueID:         l.IssueID,
		URL:             l.URL,
		MetaTitle:       l.MetaTitle,
		MetaDescription: l.MetaDescription,
		ToneNote:        l.ToneNote,
		AudioPath:       l.AudioPath,
		AudioTranscript: l.AudioTranscript,
		Selected:        l.Selected,
		ShortURL:        l.ShortURL,
		Order:           l.Order,
		CreatedAt:       l.CreatedAt,
	}
}

func (r *linkRepository) list(db *gorm.DB) ([]*domain.LinkItem, error) {
	var ms []*model.LinkItem
	if err := db.Order("sort_order ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.LinkItem, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Create 创建链接
func (r *linkRepository) Create(ctx context.Context, link *domain.LinkItem) (*domain.LinkItem, error) {
	m := r.toModel(link)
	m.ID = 0
	err := r.dao.ExecuteWrite(ctx, link.IssueID, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByID 根据ID获取链接
func (r *linkRepository) GetByID(ctx context.Context, id int64) (*domain.LinkItem, error) {
	var m model.LinkItem
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByIssue 按 order 升序获取本期链接
func (r *linkRepository) ListByIssue(ctx context.Context, issueID int64) ([]*domain.LinkItem, error) {
	return r.list(r.dao.DB(ctx).Where("issue_id = ?", issueID))
}

// ListSelected 已选链接
func (r *linkRepository) ListSelected(ctx context.Context, issueID int64) ([]*domain.LinkItem, error) {
	return r.list(r.dao.DB(ctx).Where("issue_id = ? AND selected = ?", issueID, true))
}

// FindByURL 查找本期中相同 URL 的链接
func (r *linkRepository) FindByURL(ctx context.Context, issueID int64, url string) (*domain.LinkItem, error) {
	var m model.LinkItem
	if err := r.dao.DB(ctx).Where("issue_id = ? AND url = ?", issueID, url).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *linkRepository) CountByIssue(ctx context.Context, issueID int64) (int64, error) {
	return r.dao.countByIssue(ctx, &model.LinkItem{}, issueID)
}

func (r *linkRepository) MaxOrder(ctx context.Context, issueID int64) (int, error) {
	return r.dao.maxOrder(ctx, &model.LinkItem{}, issueID)
}

// UpdateToneNote 更新语气备注，nil 表示清空
func (r *linkRepository) UpdateToneNote(ctx context.Context, id int64, toneNote *string) error {
	return r.dao.updateByID(ctx, &model.LinkItem{}, id, map[string]any{"tone_note": toneNote})
}

func (r *linkRepository) UpdateSelected(ctx context.Context, id int64, selected bool) error {
	return r.dao.updateByID(ctx, &model.LinkItem{}, id, map[string]any{"selected": selected})
}

// ReplaceSelection 集合替换：仅 ids 中的链接为选中
func (r *linkRepository) ReplaceSelection(ctx context.Context, issueID int64, ids []int64) error {
	return r.dao.ExecuteWrite(ctx, issueID, func(tx *gorm.DB) error {
		if err := tx.Model(&model.LinkItem{}).Where("issue_id = ?", issueID).Update("selected", false).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&model.LinkItem{}).Where("issue_id = ? AND id IN ?", issueID, ids).Update("selected", true).Error
	})
}

// UpdateShortURL 保存短链，空串清除
func (r *linkRepository) UpdateShortURL(ctx context.Context, id int64, shortURL string) error {
	return r.dao.updateByID(ctx, &model.LinkItem{}, id, map[string]any{"short_url": nullable(shortURL)})
}

// UpdateAudio 保存音频路径与转写文本
func (r *linkRepository) UpdateAudio(ctx context.Context, id int64, audioPath string, transcript *string) error {
	return r.dao.updateByID(ctx, &model.LinkItem{}, id, map[string]any{
		"audio_path":       audioPath,
		"audio_transcript": transcript,
	})
}

func (r *linkRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.deleteByID(ctx, &model.LinkItem{}, id)
}
