package fetch

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var audioMimeTypes = map[string]string{
	"webm": "audio/webm",
	"m4a":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"mp4":  "audio/mp4",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
}

// AudioExt returns the lowercased extension of filename without the dot, "webm" when absent
// AudioExt 返回小写扩展名，缺省为 webm
func AudioExt(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "webm"
	}
	return ext
}

// AudioMimeType 根据扩展名返回 MIME 类型，未知时为 audio/webm
func AudioMimeType(ext string) string {
	if m, ok := audioMimeTypes[strings.ToLower(ext)]; ok {
		return m
	}
	return "audio/webm"
}

// transcriptionAPI is the slice of the Whisper endpoint the transcriber uses
type transcriptionAPI func(ctx context.Context, params openai.AudioTranscriptionNewParams) (string, error)

// Transcriber Whisper 语音转写
type Transcriber struct {
	api     transcriptionAPI
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewTranscriber apiKey 为空时转写功能关闭，Transcribe 总是返回 nil
func NewTranscriber(cfg *Config, apiKey, baseURL string, lg *zap.Logger) *Transcriber {
	if lg == nil {
		lg = zap.NewNop()
	}
	t := &Transcriber{
		model:   cfg.TranscribeModel,
		timeout: timeout(cfg.TranscribeTimeout, 60*time.Second),
		logger:  lg,
	}
	if apiKey == "" {
		return t
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	t.api = func(ctx context.Context, params openai.AudioTranscriptionNewParams) (string, error) {
		resp, err := client.Audio.Transcriptions.New(ctx, params)
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}
	return t
}

// Enabled 是否配置了转写
func (t *Transcriber) Enabled() bool {
	return t.api != nil
}

// Transcribe returns the trimmed transcript, or nil when transcription is disabled,
// fails or produces no text
// Transcribe 返回转写文本；未配置、失败或为空时返回 nil
func (t *Transcriber) Transcribe(ctx context.Context, r io.Reader, filename string) *string {
	if t.api == nil {
		t.logger.Warn("OPENAI_API_KEY not set, skipping transcription")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	ext := AudioExt(filename)
	text, err := t.api(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(r, "audio."+ext, AudioMimeType(ext)),
		Model: openai.AudioModel(t.model),
	})
	if err != nil {
		t.logger.Warn("audio transcription failed",
			zap.String("file", filename),
			zap.Error(errors.Wrap(err, "whisper")))
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}
