package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/diff"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"

	"go.uber.org/zap"
)

// DraftService 定义草稿章节业务服务接口
type DraftService interface {
	// Generate regenerates every main section from the selected links. Failures of single
	// links are collected in the result and never abort the batch.
	// Generate 为已选链接重新生成全部正文章节，单条失败只记录不中断
	Generate(ctx context.Context, issueID int64) (*DraftResultDTO, error)

	// SelectTitle 选择章节标题，只写编辑层
	SelectTitle(ctx context.Context, params *dto.SectionTitleRequest) (*SectionDTO, error)

	// UpdateContent 保存章节编辑稿，只写编辑层
	UpdateContent(ctx context.Context, params *dto.SectionContentRequest) (*SectionDTO, error)

	// Diff 对比原始内容与编辑稿
	Diff(ctx context.Context, id int64) (*SectionDiffDTO, error)
}

// DraftResultDTO 草稿生成结果
type DraftResultDTO struct {
	Generated int      `json:"generated"`
	Total     int      `json:"total"`
	Errors    []string `json:"errors"`
}

// SectionDTO 章节数据传输对象
type SectionDTO struct {
	ID            int64                  `json:"id"`
	IssueID       int64                  `json:"issueId"`
	LinkItemID    *int64                 `json:"linkItemId"`
	SectionType   string                 `json:"sectionType"`
	Title         string                 `json:"title"` // resolved title // 最终标题
	Content       domain.SectionContent  `json:"content"`
	EditedContent *domain.SectionContent `json:"editedContent"`
	Order         int                    `json:"order"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// SectionDiffDTO 章节差异
type SectionDiffDTO struct {
	SectionID int64       `json:"sectionId"`
	Original  string      `json:"original"`
	Edited    string      `json:"edited"`
	Diff      diff.Result `json:"diff"`
}

func newSectionDTO(s *domain.GeneratedSection) *SectionDTO {
	d := &SectionDTO{
		ID:          s.ID,
		IssueID:     s.IssueID,
		LinkItemID:  s.LinkItemID,
		SectionType: s.SectionType,
		Title:       s.Effective().ResolveTitle(),
		Content:     s.Content.Clone(),
		Order:       s.Order,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.EditedContent != nil {
		edited := s.EditedContent.Clone()
		d.EditedContent = &edited
	}
	return d
}

// draftService 实现 DraftService 接口
type draftService struct {
	repos    *Repositories
	provider ai.Provider
	archive  ArchiveSearcher
	logger   *zap.Logger
}

// NewDraftService 创建 DraftService 实例；archive 可为 nil
func NewDraftService(repos *Repositories, provider ai.Provider, archive ArchiveSearcher, lg *zap.Logger) DraftService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &draftService{repos: repos, provider: provider, archive: archive, logger: lg}
}

// Generate 生成草稿
func (s *draftService) Generate(ctx context.Context, issueID int64) (*DraftResultDTO, error) {
	if _, err := s.repos.loadIssue(ctx, issueID); err != nil {
		return nil, err
	}

	links, err := s.repos.Link.ListSelected(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if len(links) == 0 {
		return nil, code.ErrorNoLinksSelected.WithDetails("No links selected. Select at least 1 link to generate.")
	}

	if err := s.repos.Section.DeleteMain(ctx, issueID); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	res := &DraftResultDTO{Total: len(links), Errors: []string{}}
	provider := s.provider.Name()
	for i, link := range links {
		start := time.Now()
		err := s.generateOne(ctx, issueID, i, link)
		sectionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
		sectionsGenerated.WithLabelValues(provider, resultLabel(err)).Inc()

		if err != nil {
			s.logger.Warn("generate section failed",
				zap.Int64(logger.FieldIssueID, issueID),
				zap.Int64(logger.FieldLinkID, link.ID),
				zap.String(logger.FieldURL, link.URL),
				zap.String(logger.FieldProvider, provider),
				zap.Error(err))
			res.Errors = append(res.Errors, fmt.Sprintf("Section %d (%s): %s", i+1, link.Label(), err.Error()))
			continue
		}
		res.Generated++
	}

	s.logger.Info("draft generated",
		zap.Int64(logger.FieldIssueID, issueID),
		zap.String(logger.FieldProvider, provider),
		zap.Int("generated", res.Generated),
		zap.Int("total", res.Total))
	return res, nil
}

func (s *draftService) generateOne(ctx context.Context, issueID int64, order int, link *domain.LinkItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var archiveContext string
	if s.archive != nil {
		archiveContext = s.archive.Search(ctx, deref(link.MetaTitle), deref(link.MetaDescription), link.URL)
	}

	draft, err := s.provider.GenerateSection(ctx, ai.SectionInput{
		URL:             link.URL,
		MetaTitle:       deref(link.MetaTitle),
		MetaDescription: deref(link.MetaDescription),
		ToneNote:        deref(link.ToneNote),
		AudioTranscript: deref(link.AudioTranscript),
		ArchiveContext:  archiveContext,
	})
	if err != nil {
		return err
	}

	linkID := link.ID
	_, err = s.repos.Section.Create(ctx, &domain.GeneratedSection{
		IssueID:     issueID,
		LinkItemID:  &linkID,
		SectionType: domain.SectionTypeMain,
		Content: domain.SectionContent{
			TitleOptions: draft.TitleOptions,
			WhyItMatters: draft.WhyItMatters,
			MyThoughts:   draft.MyThoughts,
		},
		Order: order,
	})
	return err
}

// SelectTitle 选择标题
func (s *draftService) SelectTitle(ctx context.Context, params *dto.SectionTitleRequest) (*SectionDTO, error) {
	section, err := s.repos.Section.GetByID(ctx, params.ID)
	if err != nil {
		return nil, dbError(err, code.ErrorSectionNotFound)
	}

	content := section.Effective()
	if !validTitleChoice(content.TitleOptions, params.Title) {
		return nil, code.ErrorInvalidParams.WithDetails("title must be one of the title options or " + domain.CustomTitleSentinel)
	}
	content.SelectedTitle = params.Title
	if params.Title == domain.CustomTitleSentinel && params.CustomTitle != "" {
		content.CustomTitle = params.CustomTitle
	}

	return s.saveEdited(ctx, section.ID, content)
}

// UpdateContent 保存编辑稿
func (s *draftService) UpdateContent(ctx context.Context, params *dto.SectionContentRequest) (*SectionDTO, error) {
	section, err := s.repos.Section.GetByID(ctx, params.ID)
	if err != nil {
		return nil, dbError(err, code.ErrorSectionNotFound)
	}

	current := section.Effective()
	content := domain.SectionContent{
		TitleOptions:  params.TitleOptions,
		WhyItMatters:  params.WhyItMatters,
		MyThoughts:    params.MyThoughts,
		SelectedTitle: params.SelectedTitle,
		CustomTitle:   params.CustomTitle,
	}
	if len(content.TitleOptions) == 0 {
		content.TitleOptions = current.TitleOptions
	}
	if content.SelectedTitle != "" && !validTitleChoice(content.TitleOptions, content.SelectedTitle) {
		return nil, code.ErrorInvalidParams.WithDetails("selectedTitle must be one of the title options or " + domain.CustomTitleSentinel)
	}

	return s.saveEdited(ctx, section.ID, content)
}

func (s *draftService) saveEdited(ctx context.Context, id int64, content domain.SectionContent) (*SectionDTO, error) {
	if err := s.repos.Section.UpdateEdited(ctx, id, content); err != nil {
		return nil, dbError(err, code.ErrorSectionNotFound)
	}
	updated, err := s.repos.Section.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err, code.ErrorSectionNotFound)
	}
	return newSectionDTO(updated), nil
}

// Diff 章节差异
func (s *draftService) Diff(ctx context.Context, id int64) (*SectionDiffDTO, error) {
	section, err := s.repos.Section.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err, code.ErrorSectionNotFound)
	}
	original := section.Content.Render()
	edited := section.Effective().Render()
	return &SectionDiffDTO{
		SectionID: id,
		Original:  original,
		Edited:    edited,
		Diff:      diff.Compare(original, edited),
	}, nil
}

func validTitleChoice(options []string, title string) bool {
	return title == domain.CustomTitleSentinel || util.InSlice(options, title)
}
