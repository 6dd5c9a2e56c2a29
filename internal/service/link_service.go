package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/internal/fetch"
	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/convert"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LinkService 定义候选链接业务服务接口
type LinkService interface {
	// Add 添加链接并抓取标题与描述
	Add(ctx context.Context, params *dto.LinkAddRequest) (*LinkDTO, error)

	// UpdateToneNote 更新语气备注，空串清除
	UpdateToneNote(ctx context.Context, params *dto.LinkToneRequest) (*LinkDTO, error)

	// Toggle 设置单条链接的选中状态
	Toggle(ctx context.Context, params *dto.LinkToggleRequest) (*LinkDTO, error)

	// Remove 删除链接
	Remove(ctx context.Context, id int64) error

	// UploadAudio stores a voice memo for the link and transcribes it; a failed
	// transcription still keeps the audio
	// UploadAudio 保存语音备忘并转写
	UploadAudio(ctx context.Context, id int64, file io.Reader, filename string, size int64) (*LinkDTO, error)

	// SelectFinal replaces the selection with the final links of the issue
	// SelectFinal 选择最终入选链接（集合替换）
	SelectFinal(ctx context.Context, params *dto.LinkSelectRequest) ([]*LinkDTO, error)
}

// LinkDTO 链接数据传输对象
type LinkDTO struct {
	ID              int64     `json:"id"`
	IssueID         int64     `json:"issueId"`
	URL             string    `json:"url"`
	MetaTitle       *string   `json:"metaTitle"`
	MetaDescription *string   `json:"metaDescription"`
	ToneNote        *string   `json:"toneNote"`
	AudioPath       *string   `json:"audioPath"`
	AudioTranscript *string   `json:"audioTranscript"`
	Selected        bool      `json:"selected"`
	ShortURL        *string   `json:"shortUrl"`
	Order           int       `json:"order"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newLinkDTO(l *domain.LinkItem) *LinkDTO {
	return convert.StructAssign(l, &LinkDTO{}).(*LinkDTO)
}

// linkService 实现 LinkService 接口
type linkService struct {
	repos       *Repositories
	metadata    MetadataFetcher
	transcriber AudioTranscriber
	storage     storage.Storager
	config      UploadConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewLinkService 创建 LinkService 实例；storage 为 nil 时禁用音频上传
func NewLinkService(repos *Repositories, metadata MetadataFetcher, transcriber AudioTranscriber, store storage.Storager, cfg UploadConfig, lg *zap.Logger) LinkService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &linkService{
		repos:       repos,
		metadata:    metadata,
		transcriber: transcriber,
		storage:     store,
		config:      cfg,
		logger:      lg,
		now:         time.Now,
	}
}

// Add 添加链接
func (s *linkService) Add(ctx context.Context, params *dto.LinkAddRequest) (*LinkDTO, error) {
	if _, err := s.repos.loadIssue(ctx, params.IssueID); err != nil {
		return nil, err
	}

	url := strings.TrimSpace(params.URL)
	if _, err := s.repos.Link.FindByURL(ctx, params.IssueID, url); err == nil {
		return nil, code.ErrorLinkExists.WithDetails(url)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	count, err := s.repos.Link.CountByIssue(ctx, params.IssueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	md := s.metadata.Fetch(ctx, url)
	link, err := s.repos.Link.Create(ctx, &domain.LinkItem{
		IssueID:         params.IssueID,
		URL:             url,
		MetaTitle:       optString(md.Title),
		MetaDescription: optString(md.Description),
		ToneNote:        optString(params.ToneNote),
		Order:           int(count),
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("link added",
		zap.Int64(logger.FieldIssueID, link.IssueID),
		zap.Int64(logger.FieldLinkID, link.ID),
		zap.String(logger.FieldURL, link.URL),
		zap.Bool("metadata", md.Title != ""))
	return newLinkDTO(link), nil
}

// UpdateToneNote 更新语气备注
func (s *linkService) UpdateToneNote(ctx context.Context, params *dto.LinkToneRequest) (*LinkDTO, error) {
	if err := s.repos.Link.UpdateToneNote(ctx, params.ID, optString(params.ToneNote)); err != nil {
		return nil, dbError(err, code.ErrorLinkNotFound)
	}
	return s.get(ctx, params.ID)
}

// Toggle 设置选中状态
func (s *linkService) Toggle(ctx context.Context, params *dto.LinkToggleRequest) (*LinkDTO, error) {
	if err := s.repos.Link.UpdateSelected(ctx, params.ID, *params.Selected); err != nil {
		return nil, dbError(err, code.ErrorLinkNotFound)
	}
	return s.get(ctx, params.ID)
}

// Remove 删除链接
func (s *linkService) Remove(ctx context.Context, id int64) error {
	if err := s.repos.Link.Delete(ctx, id); err != nil {
		return dbError(err, code.ErrorLinkNotFound)
	}
	return nil
}

// UploadAudio 上传语音备忘
func (s *linkService) UploadAudio(ctx context.Context, id int64, file io.Reader, filename string, size int64) (*LinkDTO, error) {
	if s.storage == nil {
		return nil, code.ErrorInvalidStorageType.WithDetails("upload storage is not configured")
	}
	limit := s.config.maxAudioSize()
	if size > limit {
		return nil, code.ErrorAudioTooLarge.WithDetails(fmt.Sprintf("max %d bytes", limit))
	}

	link, err := s.repos.Link.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err, code.ErrorLinkNotFound)
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	}
	if int64(len(data)) > limit {
		return nil, code.ErrorAudioTooLarge.WithDetails(fmt.Sprintf("max %d bytes", limit))
	}
	if len(data) == 0 {
		return nil, code.ErrorInvalidParams.WithDetails("audio file is empty")
	}

	ext := fetch.AudioExt(filename)
	key := path.Join(s.config.KeyPrefix, fmt.Sprintf("%d-%d.%s", link.ID, s.now().UnixMilli(), ext))
	stored, err := s.storage.SendFile(ctx, key, bytes.NewReader(data), fetch.AudioMimeType(ext))
	if err != nil {
		s.logger.Error("store audio failed",
			zap.Int64(logger.FieldLinkID, id),
			zap.String(logger.FieldKey, key),
			zap.Error(err))
		return nil, code.ErrorStorageSave.WithDetails(err.Error())
	}

	var transcript *string
	if s.transcriber != nil {
		transcript = s.transcriber.Transcribe(ctx, bytes.NewReader(data), filename)
	}

	if err := s.repos.Link.UpdateAudio(ctx, id, stored, transcript); err != nil {
		return nil, dbError(err, code.ErrorLinkNotFound)
	}

	s.logger.Info("audio uploaded",
		zap.Int64(logger.FieldLinkID, id),
		zap.String(logger.FieldKey, stored),
		zap.Int(logger.FieldSize, len(data)),
		zap.Bool("transcribed", transcript != nil))
	return s.get(ctx, id)
}

// SelectFinal 选择最终链接
func (s *linkService) SelectFinal(ctx context.Context, params *dto.LinkSelectRequest) ([]*LinkDTO, error) {
	if _, err := s.repos.loadIssue(ctx, params.IssueID); err != nil {
		return nil, err
	}

	links, err := s.repos.Link.ListByIssue(ctx, params.IssueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	all := make([]int64, 0, len(links))
	for _, l := range links {
		all = append(all, l.ID)
	}

	ids, err := workflow.ValidateSelection(all, params.IDs)
	if err != nil {
		return nil, code.ErrorSelectCount.WithDetails(err.Error())
	}
	if err := s.repos.Link.ReplaceSelection(ctx, params.IssueID, ids); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	links, err = s.repos.Link.ListByIssue(ctx, params.IssueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return convert.SliceAssign(links, newLinkDTO), nil
}

func (s *linkService) get(ctx context.Context, id int64) (*LinkDTO, error) {
	link, err := s.repos.Link.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err, code.ErrorLinkNotFound)
	}
	return newLinkDTO(link), nil
}
