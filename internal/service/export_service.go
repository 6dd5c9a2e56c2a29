package service

import (
	"context"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/internal/export"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/convert"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"

	"go.uber.org/zap"
)

// ExportService 定义导出业务服务接口
type ExportService interface {
	// Build renders the issue and stores the text as a new export
	// Build 渲染期刊并保存为新的导出记录
	Build(ctx context.Context, params *dto.ExportBuildRequest) (*ExportDTO, error)

	// Preview 渲染但不保存
	Preview(ctx context.Context, issueID int64) (string, error)

	// List 导出历史，最新在前
	List(ctx context.Context, issueID int64) ([]*ExportDTO, error)

	// Latest 最新导出
	Latest(ctx context.Context, issueID int64) (*ExportDTO, error)
}

// ExportDTO 导出数据传输对象
type ExportDTO struct {
	ID        int64     `json:"id"`
	IssueID   int64     `json:"issueId"`
	Format    string    `json:"format"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func newExportDTO(e *domain.Export) *ExportDTO {
	return convert.StructAssign(e, &ExportDTO{}).(*ExportDTO)
}

// exportService 实现 ExportService 接口
type exportService struct {
	repos  *Repositories
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repos *Repositories, lg *zap.Logger) ExportService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &exportService{repos: repos, logger: lg}
}

func (s *exportService) render(ctx context.Context, issueID int64) (string, error) {
	issue, err := s.repos.loadIssue(ctx, issueID)
	if err != nil {
		return "", err
	}
	links, err := s.repos.Link.ListByIssue(ctx, issueID)
	if err != nil {
		return "", code.ErrorDBQuery.WithDetails(err.Error())
	}
	events, err := s.repos.Event.ListIncluded(ctx, issueID)
	if err != nil {
		return "", code.ErrorDBQuery.WithDetails(err.Error())
	}
	sections, err := s.repos.Section.ListMain(ctx, issueID)
	if err != nil {
		return "", code.ErrorDBQuery.WithDetails(err.Error())
	}

	return export.Build(export.Input{
		Issue:    issue,
		Events:   events,
		Sections: sections,
		Links:    links,
	}), nil
}

// Build 生成导出
func (s *exportService) Build(ctx context.Context, params *dto.ExportBuildRequest) (*ExportDTO, error) {
	format := params.Format
	if format == "" {
		format = domain.ExportFormatTxt
	}

	content, err := s.render(ctx, params.IssueID)
	if err != nil {
		return nil, err
	}

	saved, err := s.repos.Export.Create(ctx, &domain.Export{
		IssueID: params.IssueID,
		Format:  format,
		Content: content,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	exportsBuilt.WithLabelValues(format).Inc()
	s.logger.Info("export built",
		zap.Int64(logger.FieldIssueID, params.IssueID),
		zap.String("format", format),
		zap.Int(logger.FieldSize, len(content)))
	return newExportDTO(saved), nil
}

// Preview 预览导出
func (s *exportService) Preview(ctx context.Context, issueID int64) (string, error) {
	return s.render(ctx, issueID)
}

// List 导出历史
func (s *exportService) List(ctx context.Context, issueID int64) ([]*ExportDTO, error) {
	if _, err := s.repos.loadIssue(ctx, issueID); err != nil {
		return nil, err
	}
	exports, err := s.repos.Export.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return convert.SliceAssign(exports, newExportDTO), nil
}

// Latest 最新导出，没有导出时返回 nil
func (s *exportService) Latest(ctx context.Context, issueID int64) (*ExportDTO, error) {
	if _, err := s.repos.loadIssue(ctx, issueID); err != nil {
		return nil, err
	}
	e, err := s.repos.Export.Latest(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if e == nil {
		return nil, nil
	}
	return newExportDTO(e), nil
}
