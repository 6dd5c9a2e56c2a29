package ai

import (
	"context"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse 模型返回空内容
var ErrEmptyResponse = errors.New("model returned empty response")

// Completion is one system + user prompt exchange
// Completion 一次提示词补全请求
type Completion struct {
	System string
	User   string
	// Model 为空时使用默认模型
	Model       string
	MaxTokens   int
	Temperature float32
	// JSON 要求模型只输出一个 JSON 对象（OpenAI json_object 模式）
	JSON bool
}

// Completer turns a prompt into model text
// Completer 文本补全接口
type Completer interface {
	Complete(ctx context.Context, req Completion) (string, error)
}

// chatGenerator is the part of the eino ChatModel the completer needs
type chatGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// EinoCompleter OpenAI 兼容的聊天补全（eino ChatModel）
// response_format is fixed per ChatModel, so JSON requests go to a second model.
type EinoCompleter struct {
	chat chatGenerator
	json chatGenerator
}

var _ Completer = (*EinoCompleter)(nil)

// NewEinoCompleter 创建 eino 补全器
func NewEinoCompleter(ctx context.Context, cfg OpenAIConfig, apiKey string) (*EinoCompleter, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create chat model")
	}
	jm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create json chat model")
	}
	return &EinoCompleter{chat: cm, json: jm}, nil
}

func (c *EinoCompleter) Complete(ctx context.Context, req Completion) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: req.System})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: req.User})

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	chat := c.chat
	if req.JSON && c.json != nil {
		chat = c.json
	}
	resp, err := chat.Generate(ctx, messages, opts...)
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Content, nil
}

// promptFunc matches anthropic.PromptWithSettings without the file attachments
type promptFunc func(system, user, apiKey string, settings types.RequestSettings) (string, error)

func anthropicPrompt(system, user, apiKey string, settings types.RequestSettings) (string, error) {
	resp, err := anthropic.PromptWithSettings(system, user, "", apiKey, settings)
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Content[0].Text, nil
}

// LlmkitCompleter Claude 消息接口补全（llmkit）
type LlmkitCompleter struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	prompt      promptFunc
}

var _ Completer = (*LlmkitCompleter)(nil)

// NewLlmkitCompleter 创建 llmkit 补全器
func NewLlmkitCompleter(cfg AnthropicConfig, apiKey string) *LlmkitCompleter {
	return &LlmkitCompleter{
		apiKey:      apiKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		prompt:      anthropicPrompt,
	}
}

// Complete runs the blocking llmkit call in a goroutine so ctx cancellation is honoured
// Complete llmkit 调用不接受 ctx，在 goroutine 中执行并响应取消
func (c *LlmkitCompleter) Complete(ctx context.Context, req Completion) (string, error) {
	settings := types.RequestSettings{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if req.Model != "" {
		settings.Model = req.Model
	}
	if req.MaxTokens > 0 {
		settings.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		settings.Temperature = float64(req.Temperature)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := c.prompt(req.System, req.User, c.apiKey, settings)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", errors.Wrap(r.err, "anthropic prompt")
		}
		if strings.TrimSpace(r.text) == "" {
			return "", ErrEmptyResponse
		}
		return r.text, nil
	}
}

// LimitedCompleter applies a shared rate limit and a per-call timeout to another Completer
// LimitedCompleter 为补全器增加限速与单次超时
type LimitedCompleter struct {
	next    Completer
	limiter *rate.Limiter
	timeout time.Duration
}

var _ Completer = (*LimitedCompleter)(nil)

// NewRateLimiter builds a limiter from requests per minute; rpm <= 0 means unlimited
// NewRateLimiter 按每分钟请求数创建限速器
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
}

// WithLimit 包装补全器，timeout <= 0 时不设超时
func WithLimit(next Completer, limiter *rate.Limiter, timeout time.Duration) *LimitedCompleter {
	return &LimitedCompleter{next: next, limiter: limiter, timeout: timeout}
}

func (c *LimitedCompleter) Complete(ctx context.Context, req Completion) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limit wait")
		}
	}
	return c.next.Complete(ctx, req)
}
