package ai

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/search"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const anthropicEventMaxTokens = 256

// ErrProviderKeyMissing 所选 provider 缺少 API key
var ErrProviderKeyMissing = errors.New("API key for the configured AI provider is not set")

// NewProvider builds the provider named by cfg.Provider.
// When searcher is non-nil, upcoming events are grounded in live search results.
//
// NewProvider 根据配置创建 Provider；searcher 非空时事件生成走搜索增强
func NewProvider(ctx context.Context, cfg *Config, searcher search.Searcher, limiter *rate.Limiter, lg *zap.Logger) (Provider, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	var base *llmProvider
	switch cfg.Provider {
	case "", ProviderMock:
		return NewMockProvider(), nil

	case ProviderOpenAI:
		key := cfg.OpenAIKey()
		if key == "" {
			return nil, errors.Wrap(ErrProviderKeyMissing, "OPENAI_API_KEY")
		}
		cm, err := NewEinoCompleter(ctx, cfg.OpenAI, key)
		if err != nil {
			return nil, err
		}
		structured := Completion{Model: cfg.OpenAI.Model, Temperature: cfg.OpenAI.Temperature, JSON: true}
		base = newLLMProvider(ProviderOpenAI, WithLimit(cm, limiter, 0), cfg.author(), lg, llmOptions{
			section:        structured,
			event:          Completion{Model: cfg.OpenAI.EventModel, Temperature: cfg.OpenAI.Temperature},
			events:         structured,
			sectionTimeout: cfg.sectionTimeout(),
			eventTimeout:   cfg.eventTimeout(),
		})

	case ProviderAnthropic:
		key := cfg.AnthropicKey()
		if key == "" {
			return nil, errors.Wrap(ErrProviderKeyMissing, "ANTHROPIC_API_KEY")
		}
		cm := NewLlmkitCompleter(cfg.Anthropic, key)
		base = newLLMProvider(ProviderAnthropic, WithLimit(cm, limiter, 0), cfg.author(), lg, llmOptions{
			event:          Completion{MaxTokens: anthropicEventMaxTokens},
			sectionTimeout: cfg.sectionTimeout(),
			eventTimeout:   cfg.eventTimeout(),
		})

	default:
		return nil, errors.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if searcher == nil {
		return base, nil
	}
	return newSearchEventsProvider(base, searcher, cfg.searchEventsTimeout()), nil
}

// NewImagePipelineFromConfig wires the concept model (Claude when configured, otherwise the
// OpenAI chat model) and DALL-E. A missing OpenAI key is reported when an image is requested.
//
// NewImagePipelineFromConfig 根据配置组装配图流水线
func NewImagePipelineFromConfig(ctx context.Context, cfg *Config, limiter *rate.Limiter, lg *zap.Logger) (*ImagePipeline, error) {
	var (
		concept      Completer
		conceptModel string
		images       ImageGenerator
	)

	openaiKey := cfg.OpenAIKey()
	switch {
	case cfg.AnthropicKey() != "":
		concept = NewLlmkitCompleter(cfg.Anthropic, cfg.AnthropicKey())
		conceptModel = cfg.Anthropic.ConceptModel
	case openaiKey != "":
		cm, err := NewEinoCompleter(ctx, cfg.OpenAI, openaiKey)
		if err != nil {
			return nil, err
		}
		concept = cm
	}
	if concept != nil {
		concept = WithLimit(concept, limiter, 0)
	}
	if openaiKey != "" {
		images = NewOpenAIImages(cfg.OpenAI, openaiKey)
	}

	return NewImagePipeline(concept, images, conceptModel, cfg.imageTimeout(), lg), nil
}

// NewCompleter returns the rate-limited chat completer of the configured provider,
// or nil in mock mode
// NewCompleter 返回当前 provider 的对话补全器，mock 模式返回 nil
func NewCompleter(ctx context.Context, cfg *Config, limiter *rate.Limiter) (Completer, error) {
	switch cfg.Provider {
	case "", ProviderMock:
		return nil, nil
	case ProviderOpenAI:
		key := cfg.OpenAIKey()
		if key == "" {
			return nil, errors.Wrap(ErrProviderKeyMissing, "OPENAI_API_KEY")
		}
		cm, err := NewEinoCompleter(ctx, cfg.OpenAI, key)
		if err != nil {
			return nil, err
		}
		return WithLimit(cm, limiter, 0), nil
	case ProviderAnthropic:
		key := cfg.AnthropicKey()
		if key == "" {
			return nil, errors.Wrap(ErrProviderKeyMissing, "ANTHROPIC_API_KEY")
		}
		return WithLimit(NewLlmkitCompleter(cfg.Anthropic, key), limiter, 0), nil
	}
	return nil, errors.Errorf("unsupported ai provider: %s", cfg.Provider)
}
