package service

import (
	"context"
	"strings"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/ai"
	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/convert"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"

	"go.uber.org/zap"
)

// EventService 定义"To Keep an Eye On"事件业务服务接口
type EventService interface {
	// FetchUpcoming replaces the issue's events with generated ones for the week after its publish date
	// FetchUpcoming 为发布日之后的一周生成事件，并替换现有事件
	FetchUpcoming(ctx context.Context, issueID int64) (*EventFetchDTO, error)

	// Add 手动添加事件，描述为空时自动生成
	Add(ctx context.Context, params *dto.EventAddRequest) (*EventDTO, error)

	// Update 部分更新事件
	Update(ctx context.Context, params *dto.EventUpdateRequest) (*EventDTO, error)

	// Toggle 切换是否纳入导出
	Toggle(ctx context.Context, id int64) (*EventDTO, error)

	// Remove 删除事件
	Remove(ctx context.Context, id int64) error
}

// EventDTO 事件数据传输对象
type EventDTO struct {
	ID          int64     `json:"id"`
	IssueID     int64     `json:"issueId"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	SourceURL   *string   `json:"sourceUrl"`
	Included    bool      `json:"included"`
	Order       int       `json:"order"`
	ShortURL    *string   `json:"shortUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventFetchDTO 事件抓取结果
type EventFetchDTO struct {
	Count     int         `json:"count"`
	WeekRange string      `json:"weekRange"`
	Events    []*EventDTO `json:"events"`
}

func newEventDTO(e *domain.EventItem) *EventDTO {
	return convert.StructAssign(e, &EventDTO{}).(*EventDTO)
}

// eventService 实现 EventService 接口
type eventService struct {
	repos    *Repositories
	provider ai.Provider
	calendar CalendarSource
	logger   *zap.Logger
}

// NewEventService 创建 EventService 实例；calendar 可为 nil
func NewEventService(repos *Repositories, provider ai.Provider, calendar CalendarSource, lg *zap.Logger) EventService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &eventService{repos: repos, provider: provider, calendar: calendar, logger: lg}
}

// FetchUpcoming 生成下周事件
func (s *eventService) FetchUpcoming(ctx context.Context, issueID int64) (*EventFetchDTO, error) {
	issue, err := s.repos.Issue.GetByID(ctx, issueID)
	if err != nil || issue.PublishDate == nil {
		if err != nil && !isNotFound(err) {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		return nil, code.ErrorNoPublishDate.WithDetails("Issue not found or no publish date set.")
	}

	monday, saturday := util.WeekAfter(*issue.PublishDate)
	window := ai.EventsWindow{
		WeekStart: util.FormatShortDate(monday),
		WeekEnd:   util.FormatShortDate(saturday),
	}
	if s.calendar != nil {
		window.CalendarContext = s.calendar.Fetch(ctx)
	}

	generated, err := s.provider.GenerateUpcomingEvents(ctx, window)
	if err != nil {
		s.logger.Error("generate upcoming events failed",
			zap.Int64(logger.FieldIssueID, issueID),
			zap.String(logger.FieldProvider, s.provider.Name()),
			zap.Error(err))
		return nil, code.ErrorAIGenerate.WithDetails(err.Error())
	}

	items := make([]*domain.EventItem, 0, len(generated))
	for i, e := range generated {
		items = append(items, &domain.EventItem{
			IssueID:     issueID,
			Title:       e.Title,
			Date:        e.Date,
			Location:    e.Location,
			Description: e.Description,
			SourceURL:   optString(e.SourceURL),
			Included:    true,
			Order:       i,
		})
	}
	saved, err := s.repos.Event.ReplaceAll(ctx, issueID, items)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("upcoming events fetched",
		zap.Int64(logger.FieldIssueID, issueID),
		zap.Int("count", len(saved)),
		zap.Bool("calendar", window.CalendarContext != ""))
	return &EventFetchDTO{
		Count:     len(saved),
		WeekRange: window.WeekStart + " – " + window.WeekEnd,
		Events:    convert.SliceAssign(saved, newEventDTO),
	}, nil
}

// Add 添加事件
func (s *eventService) Add(ctx context.Context, params *dto.EventAddRequest) (*EventDTO, error) {
	if _, err := s.repos.loadIssue(ctx, params.IssueID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(params.Description)
	if description == "" {
		// 生成失败时 provider 返回兜底描述
		description, _ = s.provider.GenerateEventDescription(ctx, ai.EventInput{
			Title:    params.Title,
			Date:     params.Date,
			Location: params.Location,
		})
		if description == "" {
			description = ai.EventFallbackDescription(params.Title)
		}
	}

	maxOrder, err := s.repos.Event.MaxOrder(ctx, params.IssueID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	event, err := s.repos.Event.Create(ctx, &domain.EventItem{
		IssueID:     params.IssueID,
		Title:       strings.TrimSpace(params.Title),
		Date:        strings.TrimSpace(params.Date),
		Location:    strings.TrimSpace(params.Location),
		Description: description,
		SourceURL:   optString(params.SourceURL),
		Included:    true,
		Order:       maxOrder + 1,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return newEventDTO(event), nil
}

// Update 更新事件
func (s *eventService) Update(ctx context.Context, params *dto.EventUpdateRequest) (*EventDTO, error) {
	event, err := s.repos.Event.GetByID(ctx, params.ID)
	if err != nil {
		return nil, dbError(err, code.ErrorEventNotFound)
	}

	if params.Title != nil {
		event.Title = strings.TrimSpace(*params.Title)
	}
	if params.Date != nil {
		event.Date = strings.TrimSpace(*params.Date)
	}
	if params.Location != nil {
		event.Location = strings.TrimSpace(*params.Location)
	}
	if params.Description != nil {
		event.Description = strings.TrimSpace(*params.Description)
	}
	sourceChanged := false
	if params.SourceURL != nil {
		next := optString(*params.SourceURL)
		sourceChanged = deref(next) != deref(event.SourceURL)
		event.SourceURL = next
	}

	updated, err := s.repos.Event.Update(ctx, event)
	if err != nil {
		return nil, dbError(err, code.ErrorEventNotFound)
	}
	// 来源变化后旧短链失效
	if sourceChanged && updated.ShortURL != nil {
		if err := s.repos.Event.UpdateShortURL(ctx, updated.ID, ""); err != nil {
			return nil, dbError(err, code.ErrorEventNotFound)
		}
		updated.ShortURL = nil
	}
	return newEventDTO(updated), nil
}

// Toggle 切换纳入状态
func (s *eventService) Toggle(ctx context.Context, id int64) (*EventDTO, error) {
	event, err := s.repos.Event.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err, code.ErrorEventNotFound)
	}
	if err := s.repos.Event.UpdateIncluded(ctx, id, !event.Included); err != nil {
		return nil, dbError(err, code.ErrorEventNotFound)
	}
	event.Included = !event.Included
	return newEventDTO(event), nil
}

// Remove 删除事件
func (s *eventService) Remove(ctx context.Context, id int64) error {
	if err := s.repos.Event.Delete(ctx, id); err != nil {
		return dbError(err, code.ErrorEventNotFound)
	}
	return nil
}
