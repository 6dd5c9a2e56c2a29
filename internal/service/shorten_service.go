package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/workerpool"

	"go.uber.org/zap"
)

// ShortenService 定义短链业务服务接口
type ShortenService interface {
	// ShortenAll shortens the selected links and every event that has a source URL.
	// A URL the shortener rejects is stored unchanged.
	// ShortenAll 为已选链接与有来源的事件生成短链，失败时保留原始链接
	ShortenAll(ctx context.Context, issueID int64) (*ShortenResultDTO, error)
}

// ShortenResultDTO 短链结果
type ShortenResultDTO struct {
	Shortened int `json:"shortened"`
	Total     int `json:"total"`
}

// shortenJob 一条待缩短的 URL 及其回写函数
type shortenJob struct {
	id    int64
	url   string
	write func(ctx context.Context, id int64, shortURL string) error
}

// shortenService 实现 ShortenService 接口
type shortenService struct {
	repos     *Repositories
	shortener URLShortener
	pool      *workerpool.Pool
	logger    *zap.Logger
}

// NewShortenService 创建 ShortenService 实例
func NewShortenService(repos *Repositories, shortener URLShortener, pool *workerpool.Pool, lg *zap.Logger) ShortenService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &shortenService{repos: repos, shortener: shortener, pool: pool, logger: lg}
}

// ShortenAll 批量缩短
func (s *shortenService) ShortenAll(ctx context.Context, issueID int64) (*ShortenResultDTO, error) {
	if _, err := s.repos.loadIssue(ctx, issueID); err != nil {
		return nil, err
	}

	links, err := s.repos.Link.ListSelected(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	events, err := s.repos.Event.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	jobs := make([]shortenJob, 0, len(links)+len(events))
	for _, l := range links {
		jobs = append(jobs, shortenJob{id: l.ID, url: l.URL, write: s.repos.Link.UpdateShortURL})
	}
	for _, e := range events {
		if src := deref(e.SourceURL); src != "" {
			jobs = append(jobs, shortenJob{id: e.ID, url: src, write: s.repos.Event.UpdateShortURL})
		}
	}

	var shortened atomic.Int64
	run := func(ctx context.Context, i int) error {
		job := jobs[i]
		short, ok := s.shortener.Shorten(ctx, job.url)
		if ok {
			shortened.Add(1)
			urlsShortened.WithLabelValues("shortened").Inc()
		} else {
			urlsShortened.WithLabelValues("kept").Inc()
		}
		return job.write(ctx, job.id, short)
	}

	var errs []error
	if s.pool != nil {
		errs = s.pool.Each(ctx, len(jobs), run)
	} else {
		for i := range jobs {
			errs = append(errs, run(ctx, i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("save short urls failed", zap.Int64(logger.FieldIssueID, issueID), zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	res := &ShortenResultDTO{Shortened: int(shortened.Load()), Total: len(jobs)}
	s.logger.Info("urls shortened",
		zap.Int64(logger.FieldIssueID, issueID),
		zap.Int("shortened", res.Shortened),
		zap.Int("total", res.Total))
	return res, nil
}
