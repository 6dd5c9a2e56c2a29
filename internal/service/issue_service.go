package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/domain"
	"github.com/pulse-beyond/pulse-beyond/internal/dto"
	"github.com/pulse-beyond/pulse-beyond/internal/workflow"
	"github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/convert"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"

	"go.uber.org/zap"
)

// IssueService 定义期刊业务服务接口
// 负责期刊的生命周期与工作流步骤跳转
type IssueService interface {
	// Create 创建期刊，标题与发布日期可缺省
	Create(ctx context.Context, params *dto.IssueCreateRequest) (*IssueDTO, error)

	// List 分页获取期刊，按创建时间倒序，附带已完成步骤
	List(ctx context.Context, pager *app.Pager) ([]*IssueDTO, int64, error)

	// Get 获取期刊完整聚合
	Get(ctx context.Context, id int64) (*IssueDetailDTO, error)

	// Update 更新标题与发布日期
	Update(ctx context.Context, params *dto.IssueUpdateRequest) (*IssueDTO, error)

	// Delete 删除期刊及其全部子记录
	Delete(ctx context.Context, id int64) error

	// SetStep moves the issue to step when the workflow allows it
	// SetStep 在工作流允许时跳转到指定步骤
	SetStep(ctx context.Context, id int64, step string) (*IssueStepDTO, error)

	// Advance moves the issue forward one step; from links with exactly three links
	// every link is selected and the select step is skipped
	// Advance 前进一步
	Advance(ctx context.Context, id int64) (*IssueStepDTO, error)

	// OpenIssues 尚未导出的期刊，按发布日期升序
	OpenIssues(ctx context.Context) ([]*OpenIssueDTO, error)

	// EnsureUpcoming creates the issue for the next Sunday unless one already exists
	// EnsureUpcoming 确保下一个周日的期刊存在
	EnsureUpcoming(ctx context.Context) (*IssueDTO, bool, error)
}

// IssueDTO 期刊数据传输对象
type IssueDTO struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	PublishDate    *time.Time      `json:"publishDate"`
	CurrentStep    workflow.Step   `json:"currentStep"`
	CompletedSteps []workflow.Step `json:"completedSteps"`
	LinkCount      int             `json:"linkCount"`
	EventCount     int             `json:"eventCount"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// IssueDetailDTO 期刊详情：聚合数据与工作流状态
type IssueDetailDTO struct {
	IssueDTO
	AllowedNext  []workflow.Step `json:"allowedNext"`
	Links        []*LinkDTO      `json:"links"`
	Events       []*EventDTO     `json:"events"`
	Sections     []*SectionDTO   `json:"sections"`
	LatestExport *ExportDTO      `json:"latestExport"`
	LatestImage  *ImageDTO       `json:"latestImage"`
}

// IssueStepDTO 步骤跳转结果
type IssueStepDTO struct {
	ID             int64           `json:"id"`
	CurrentStep    workflow.Step   `json:"currentStep"`
	CompletedSteps []workflow.Step `json:"completedSteps"`
	AllowedNext    []workflow.Step `json:"allowedNext"`
}

// OpenIssueDTO 可加入选题的期刊
type OpenIssueDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PublishDate *string `json:"publishDate"`
}

// issueService 实现 IssueService 接口
type issueService struct {
	repos  *Repositories
	logger *zap.Logger
	now    func() time.Time
}

// NewIssueService 创建 IssueService 实例
func NewIssueService(repos *Repositories, lg *zap.Logger) IssueService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &issueService{repos: repos, logger: lg, now: time.Now}
}

func newIssueDTO(issue *domain.Issue, snap workflow.Snapshot, events int) *IssueDTO {
	d := convert.StructAssign(issue, &IssueDTO{}).(*IssueDTO)
	d.CompletedSteps = workflow.CompletedSteps(snap).Slice()
	d.LinkCount = snap.Links
	d.EventCount = events
	return d
}

func newIssueStepDTO(id int64, step workflow.Step, snap workflow.Snapshot) *IssueStepDTO {
	return &IssueStepDTO{
		ID:             id,
		CurrentStep:    step,
		CompletedSteps: workflow.CompletedSteps(snap).Slice(),
		AllowedNext:    workflow.AllowedNext(step, snap).Slice(),
	}
}

// Create 创建期刊
func (s *issueService) Create(ctx context.Context, params *dto.IssueCreateRequest) (*IssueDTO, error) {
	publish, err := parsePublishDate(params.PublishDate)
	if err != nil {
		return nil, err
	}
	if publish == nil {
		next := util.NextSunday(s.now())
		publish = &next
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = "Snapshot - " + util.FormatShortDate(*publish)
	}

	issue, err := s.repos.Issue.Create(ctx, &domain.Issue{
		Title:       title,
		PublishDate: publish,
		CurrentStep: workflow.StepLinks,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("issue created",
		zap.Int64(logger.FieldIssueID, issue.ID),
		zap.String("title", issue.Title))
	return newIssueDTO(issue, workflow.Snapshot{}, 0), nil
}

// List 分页获取期刊
func (s *issueService) List(ctx context.Context, pager *app.Pager) ([]*IssueDTO, int64, error) {
	total, err := s.repos.Issue.Count(ctx)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	issues, err := s.repos.Issue.List(ctx, pager.Page, pager.PageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}

	out := make([]*IssueDTO, 0, len(issues))
	for _, issue := range issues {
		agg, snap, err := s.repos.aggregate(ctx, issue.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, newIssueDTO(agg.Issue, snap, len(agg.Events)))
	}
	return out, total, nil
}

// Get 获取期刊详情
func (s *issueService) Get(ctx context.Context, id int64) (*IssueDetailDTO, error) {
	agg, snap, err := s.repos.aggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &IssueDetailDTO{
		IssueDTO:    *newIssueDTO(agg.Issue, snap, len(agg.Events)),
		AllowedNext: workflow.AllowedNext(agg.Issue.CurrentStep, snap).Slice(),
		Links:       convert.SliceAssign(agg.Links, newLinkDTO),
		Events:      convert.SliceAssign(agg.Events, newEventDTO),
		Sections:    convert.SliceAssign(agg.Sections, newSectionDTO),
	}
	if agg.LatestExport != nil {
		detail.LatestExport = newExportDTO(agg.LatestExport)
	}
	if agg.LatestImage != nil {
		detail.LatestImage = newImageDTO(agg.LatestImage)
	}
	return detail, nil
}

// Update 更新期刊
func (s *issueService) Update(ctx context.Context, params *dto.IssueUpdateRequest) (*IssueDTO, error) {
	issue, err := s.repos.loadIssue(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	publish, err := parsePublishDate(params.PublishDate)
	if err != nil {
		return nil, err
	}

	issue.Title = strings.TrimSpace(params.Title)
	issue.PublishDate = publish
	updated, err := s.repos.Issue.Update(ctx, issue)
	if err != nil {
		return nil, dbError(err, code.ErrorIssueNotFound)
	}

	agg, snap, err := s.repos.aggregate(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	return newIssueDTO(agg.Issue, snap, len(agg.Events)), nil
}

// Delete 删除期刊
func (s *issueService) Delete(ctx context.Context, id int64) error {
	if err := s.repos.Issue.Delete(ctx, id); err != nil {
		return dbError(err, code.ErrorIssueNotFound)
	}
	s.logger.Info("issue deleted", zap.Int64(logger.FieldIssueID, id))
	return nil
}

// SetStep 跳转步骤
func (s *issueService) SetStep(ctx context.Context, id int64, step string) (*IssueStepDTO, error) {
	target, err := workflow.ParseStep(step)
	if err != nil {
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	}

	agg, snap, err := s.repos.aggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	current := agg.Issue.CurrentStep
	if !workflow.CanMove(current, target, snap) {
		return nil, code.ErrorStepNotAllowed.WithDetails(
			fmt.Sprintf("cannot move from %s to %s", current.Label(), target.Label()))
	}

	if target != current {
		if err := s.selectAllWhenFew(ctx, agg, current, target, &snap); err != nil {
			return nil, err
		}
		if err := s.repos.Issue.UpdateStep(ctx, id, target); err != nil {
			return nil, dbError(err, code.ErrorIssueNotFound)
		}
	}
	return newIssueStepDTO(id, target, snap), nil
}

// selectAllWhenFew selects every link when an issue with at most three links
// crosses the select step, and refreshes snap to match
// selectAllWhenFew 链接不超过 3 条且越过选择步骤时全部入选
func (s *issueService) selectAllWhenFew(ctx context.Context, agg *domain.IssueAggregate, current, target workflow.Step, snap *workflow.Snapshot) error {
	selectIdx := workflow.StepSelect.Index()
	if current.Index() > selectIdx || target.Index() <= selectIdx {
		return nil
	}
	if !workflow.UseAllLinks(*snap) || snap.Selected == snap.Links {
		return nil
	}

	ids := make([]int64, 0, len(agg.Links))
	for _, l := range agg.Links {
		ids = append(ids, l.ID)
	}
	if err := s.repos.Link.ReplaceSelection(ctx, agg.Issue.ID, ids); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	snap.Selected = len(ids)
	snap.SelectedShortened = 0
	for _, l := range agg.Links {
		if l.HasShortURL() {
			snap.SelectedShortened++
		}
	}
	return nil
}

// Advance 前进一步
func (s *issueService) Advance(ctx context.Context, id int64) (*IssueStepDTO, error) {
	agg, snap, err := s.repos.aggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	current := agg.Issue.CurrentStep
	target, ok := workflow.AdvanceTarget(current, snap)
	if !ok {
		return nil, code.ErrorStepNotAllowed.WithDetails(advanceHint(current))
	}

	if err := s.selectAllWhenFew(ctx, agg, current, target, &snap); err != nil {
		return nil, err
	}

	if err := s.repos.Issue.UpdateStep(ctx, id, target); err != nil {
		return nil, dbError(err, code.ErrorIssueNotFound)
	}

	s.logger.Info("issue advanced",
		zap.Int64(logger.FieldIssueID, id),
		zap.String("from", current.String()),
		zap.String("to", target.String()))
	return newIssueStepDTO(id, target, snap), nil
}

func advanceHint(step workflow.Step) string {
	switch step {
	case workflow.StepLinks:
		return fmt.Sprintf("Add at least %d links to continue.", workflow.FinalLinkCount)
	case workflow.StepSelect:
		return fmt.Sprintf("Select exactly %d links to continue.", workflow.FinalLinkCount)
	case workflow.StepGenerate:
		return "Generate the draft before continuing."
	case workflow.StepEvents:
		return "Include at least 1 event to continue."
	}
	return "This is the last step."
}

// OpenIssues 尚未导出的期刊
func (s *issueService) OpenIssues(ctx context.Context) ([]*OpenIssueDTO, error) {
	issues, err := s.repos.Issue.ListOpen(ctx)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*OpenIssueDTO, 0, len(issues))
	for _, issue := range issues {
		d := &OpenIssueDTO{ID: issue.ID, Title: issue.Title}
		if issue.PublishDate != nil {
			date := util.FormatShortDate(*issue.PublishDate)
			d.PublishDate = &date
		}
		out = append(out, d)
	}
	return out, nil
}

// EnsureUpcoming 确保下一期存在
func (s *issueService) EnsureUpcoming(ctx context.Context) (*IssueDTO, bool, error) {
	next := util.NextSunday(s.now())
	day := util.GetZeroTime(next)

	existing, err := s.repos.Issue.ListByPublishRange(ctx, day, day.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, false, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if len(existing) > 0 {
		agg, snap, err := s.repos.aggregate(ctx, existing[0].ID)
		if err != nil {
			return nil, false, err
		}
		return newIssueDTO(agg.Issue, snap, len(agg.Events)), false, nil
	}

	created, err := s.Create(ctx, &dto.IssueCreateRequest{PublishDate: next.Format(time.RFC3339)})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
