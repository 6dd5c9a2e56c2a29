package ai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/logger"
	"go.uber.org/zap"
)

const (
	// ImageMimeType 生成图片的 MIME 类型
	ImageMimeType = "image/png"
	// maxImagePromptLen DALL-E 提示词长度上限
	maxImagePromptLen = 800
	conceptMaxTokens  = 300
)

// ErrImageKeyMissing is returned when image generation is requested without an OpenAI key
// ErrImageKeyMissing 未配置 OPENAI_API_KEY
var ErrImageKeyMissing = errors.New("OPENAI_API_KEY is not set, add it to your .env file")

// ImageGenerator renders a prompt into a base64 encoded image
// ImageGenerator 根据提示词生成 base64 图片
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIImages DALL-E 图片生成
type OpenAIImages struct {
	client openai.Client
	model  string
}

var _ ImageGenerator = (*OpenAIImages)(nil)

// NewOpenAIImages 创建 DALL-E 客户端
func NewOpenAIImages(cfg OpenAIConfig, apiKey string) *OpenAIImages {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIImages{
		client: openai.NewClient(opts...),
		model:  cfg.ImageModel,
	}
}

func (g *OpenAIImages) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1792x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return "", errors.Wrap(err, "image generation")
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("image generation returned no image data")
	}
	return resp.Data[0].B64JSON, nil
}

// GeneratedImage 配图结果
type GeneratedImage struct {
	Prompt    string
	ImageData string
	MimeType  string
}

// ImagePipeline turns a section into an editorial cover image in two stages:
// a visual concept prompt, then the image itself
// ImagePipeline 两阶段配图：先生成视觉概念提示词，再生成图片
type ImagePipeline struct {
	concept Completer
	images  ImageGenerator
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewImagePipeline images 为 nil 表示未配置 OpenAI key
func NewImagePipeline(concept Completer, images ImageGenerator, conceptModel string, timeout time.Duration, lg *zap.Logger) *ImagePipeline {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &ImagePipeline{
		concept: concept,
		images:  images,
		model:   conceptModel,
		timeout: timeout,
		logger:  lg,
	}
}

// Concept asks the concept model for a single image prompt describing sectionText
// Concept 生成视觉概念提示词
func (p *ImagePipeline) Concept(ctx context.Context, sectionText string) (string, error) {
	if p.concept == nil {
		return "", errors.New("no concept model configured")
	}
	prompt, err := ImageConceptPrompt(sectionText)
	if err != nil {
		return "", err
	}
	raw, err := p.concept.Complete(ctx, Completion{
		User:      prompt,
		Model:     p.model,
		MaxTokens: conceptMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "image concept")
	}
	concept := strings.TrimSpace(raw)
	if r := []rune(concept); len(r) > maxImagePromptLen {
		concept = string(r[:maxImagePromptLen])
	}
	return concept, nil
}

// Generate runs both stages for the rendered section text
// Generate 执行完整的两阶段配图
func (p *ImagePipeline) Generate(ctx context.Context, sectionText string) (*GeneratedImage, error) {
	if p.images == nil {
		return nil, ErrImageKeyMissing
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	concept, err := p.Concept(ctx, sectionText)
	if err != nil {
		return nil, err
	}
	data, err := p.images.Generate(ctx, concept)
	if err != nil {
		return nil, err
	}
	p.logger.Info("cover image generated",
		zap.Duration(logger.FieldDuration, time.Since(start)),
		zap.Int(logger.FieldSize, len(data)))

	return &GeneratedImage{Prompt: concept, ImageData: data, MimeType: ImageMimeType}, nil
}
