package ai

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"go.uber.org/zap"
)

// llmProvider implements Provider on top of any Completer; openai and anthropic differ only in
// the completer and the per-call settings
// llmProvider 基于 Completer 的通用实现，openai 与 anthropic 仅补全器与参数不同
type llmProvider struct {
	name      string
	completer Completer
	author    string
	system    string
	logger    *zap.Logger

	section Completion
	event   Completion
	events  Completion

	sectionTimeout time.Duration
	eventTimeout   time.Duration
}

var _ Provider = (*llmProvider)(nil)

type llmOptions struct {
	section        Completion
	event          Completion
	events         Completion
	sectionTimeout time.Duration
	eventTimeout   time.Duration
}

func newLLMProvider(name string, completer Completer, author string, lg *zap.Logger, opts llmOptions) *llmProvider {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &llmProvider{
		name:           name,
		completer:      completer,
		author:         author,
		system:         SystemPrompt(author),
		logger:         lg,
		section:        opts.section,
		event:          opts.event,
		events:         opts.events,
		sectionTimeout: opts.sectionTimeout,
		eventTimeout:   opts.eventTimeout,
	}
}

func (p *llmProvider) Name() string {
	return p.name
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (p *llmProvider) complete(ctx context.Context, base Completion, user string) (string, error) {
	req := base
	req.System = p.system
	req.User = user
	return p.completer.Complete(ctx, req)
}

func (p *llmProvider) GenerateSection(ctx context.Context, in SectionInput) (*Draft, error) {
	prompt, err := SectionPrompt(p.author, in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, p.sectionTimeout)
	defer cancel()

	raw, err := p.complete(ctx, p.section, prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "%s section", p.name)
	}

	var draft Draft
	if err := ParseJSON(raw, &draft); err != nil {
		return nil, errors.Wrapf(err, "%s section", p.name)
	}
	draft.TitleOptions = normalizeTitles(draft.TitleOptions)
	draft.WhyItMatters = strings.TrimSpace(draft.WhyItMatters)
	draft.MyThoughts = strings.TrimSpace(draft.MyThoughts)
	if len(draft.TitleOptions) == 0 && draft.WhyItMatters == "" && draft.MyThoughts == "" {
		return nil, errors.Errorf("%s section: response has no section fields", p.name)
	}
	return &draft, nil
}

// GenerateEventDescription never fails: any model error yields the fallback question
// GenerateEventDescription 出错时返回兜底描述
func (p *llmProvider) GenerateEventDescription(ctx context.Context, in EventInput) (string, error) {
	prompt, err := EventDescriptionPrompt(in)
	if err != nil {
		return EventFallbackDescription(in.Title), nil
	}

	ctx, cancel := withTimeout(ctx, p.eventTimeout)
	defer cancel()

	raw, err := p.complete(ctx, p.event, prompt)
	if err != nil {
		p.logger.Warn("event description failed, using fallback",
			zap.String(logger.FieldProvider, p.name),
			zap.String("title", in.Title),
			zap.Error(err))
		return EventFallbackDescription(in.Title), nil
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return EventFallbackDescription(in.Title), nil
	}
	return text, nil
}

type eventsEnvelope struct {
	Events []UpcomingEvent `json:"events"`
}

func (p *llmProvider) GenerateUpcomingEvents(ctx context.Context, w EventsWindow) ([]UpcomingEvent, error) {
	prompt, err := UpcomingEventsPrompt(p.author, w)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, p.sectionTimeout)
	defer cancel()

	raw, err := p.complete(ctx, p.events, prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "%s events", p.name)
	}
	return decodeEvents(raw)
}

func decodeEvents(raw string) ([]UpcomingEvent, error) {
	var env eventsEnvelope
	if err := ParseJSON(raw, &env); err != nil {
		return nil, err
	}
	out := make([]UpcomingEvent, 0, len(env.Events))
	for _, e := range env.Events {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			continue
		}
		e.Date = strings.TrimSpace(e.Date)
		e.Location = strings.TrimSpace(e.Location)
		e.Description = strings.TrimSpace(e.Description)
		e.SourceURL = strings.TrimSpace(e.SourceURL)
		out = append(out, e)
	}
	return capEvents(out), nil
}
