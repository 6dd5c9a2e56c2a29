package service

import (
	"context"
	"errors"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/convert"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"

	"go.uber.org/zap"
)

// ImageService 定义配图业务服务接口
type ImageService interface {
	// Generate 根据章节生成配图并保存
	Generate(ctx context.Context, params *dto.ImageGenerateRequest) (*ImageDTO, error)

	// List 配图历史，最新在前
	List(ctx context.Context, issueID int64) ([]*ImageDTO, error)

	// Latest 最新配图
	Latest(ctx context.Context, issueID int64) (*ImageDTO, error)
}

// ImageDTO 配图数据传输对象
type ImageDTO struct {
	ID        int64     `json:"id"`
	IssueID   int64     `json:"issueId"`
	SectionID int64     `json:"sectionId"`
	Prompt    string    `json:"prompt"`
	ImageData string    `json:"imageData"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}

func newImageDTO(i *domain.GeneratedImage) *ImageDTO {
	return convert.StructAssign(i, &ImageDTO{}).(*ImageDTO)
}

// imageService 实现 ImageService 接口
type imageService struct {
	repos    *Repositories
	pipeline CoverImagePipeline
	logger   *zap.Logger
}

// NewImageService 创建 ImageService 实例
func NewImageService(repos *Repositories, pipeline CoverImagePipeline, lg *zap.Logger) ImageService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &imageService{repos: repos, pipeline: pipeline, logger: lg}
}

// Generate 生成配图
func (s *imageService) Generate(ctx context.Context, params *dto.ImageGenerateRequest) (*ImageDTO, error) {
	if _, err := s.repos.loadIssue(ctx, params.IssueID); err != nil {
		return nil, err
	}
	section, err := s.repos.Section.GetByID(ctx, params.SectionID)
	if err != nil {
		return nil, dbError(err, code.ErrorSectionNotFound)
	}
	if section.IssueID != params.IssueID {
		return nil, code.ErrorSectionNotFound
	}
	if s.pipeline == nil {
		return nil, code.ErrorAIConfigMissing.WithDetails(ai.ErrImageKeyMissing.Error())
	}

	img, err := s.pipeline.Generate(ctx, section.Effective().Render())
	imagesGenerated.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.logger.Error("generate image failed",
			zap.Int64(logger.FieldIssueID, params.IssueID),
			zap.Int64("sectionId", params.SectionID),
			zap.Error(err))
		if errors.Is(err, ai.ErrImageKeyMissing) {
			return nil, code.ErrorAIConfigMissing.WithDetails(err.Error())
		}
		return nil, code.ErrorImageGenerate.WithDetails(err.Error())
	}

	saved, err := s.repos.Image.Create(ctx, &domain.GeneratedImage{
		IssueID:   params.IssueID,
		SectionID: params.SectionID,
		Prompt:    img.Prompt,
		ImageData: img.ImageData,
		MimeType:  img.MimeType,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return newImageDTO(saved), nil
}

// List 配图历史
func (s *imageService) List(ctx context.Context, issueID int64) ([]*ImageDTO, error) {
	if _, err := s.repos.loadIssue(ctx, issueID); err != nil {
		return nil, err
	}
	images, err := s.repos.Image.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return convert.SliceAssign(images, newImageDTO), nil
}

// Latest 最新配图，没有时返回 nil
func (s *imageService) Latest(ctx context.Context, issueID int64) (*ImageDTO, error) {
	if _, err := s.repos.loadIssue(ctx, issueID); err != nil {
		return nil, err
	}
	img, err := s.repos.Image.Latest(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if img == nil {
		return nil, nil
	}
	return newImageDTO(img), nil
}
