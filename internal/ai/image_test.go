package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	prompt string
	err    error
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return "aGVsbG8=", nil
}

func TestImagePipeline_Generate(t *testing.T) {
	concept := &fakeCompleter{replies: []string{"  A lone chess board on an office desk, window light.  "}}
	images := &fakeImages{}
	p := NewImagePipeline(concept, images, "haiku", time.Second, nil)

	img, err := p.Generate(context.Background(), "Title\n\nWhy it matters:\nwhy\n\nMy thoughts on it:\nthoughts")
	require.NoError(t, err)
	assert.Equal(t, "A lone chess board on an office desk, window light.", img.Prompt)
	assert.Equal(t, "aGVsbG8=", img.ImageData)
	assert.Equal(t, ImageMimeType, img.MimeType)
	assert.Equal(t, img.Prompt, images.prompt)

	require.Len(t, concept.requests, 1)
	req := concept.requests[0]
	assert.Equal(t, "haiku", req.Model)
	assert.Equal(t, conceptMaxTokens, req.MaxTokens)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(req.User), "SECTION:\nTitle\n\nWhy it matters:\nwhy\n\nMy thoughts on it:\nthoughts"))
}

func TestImagePipeline_Errors(t *testing.T) {
	p := NewImagePipeline(&fakeCompleter{replies: []string{"x"}}, nil, "", time.Second, nil)
	_, err := p.Generate(context.Background(), "section")
	assert.ErrorIs(t, err, ErrImageKeyMissing)

	p = NewImagePipeline(&fakeCompleter{err: errors.New("concept down")}, &fakeImages{}, "", time.Second, nil)
	_, err = p.Generate(context.Background(), "section")
	assert.ErrorContains(t, err, "concept down")

	p = NewImagePipeline(&fakeCompleter{replies: []string{"x"}}, &fakeImages{err: errors.New("dalle down")}, "", time.Second, nil)
	_, err = p.Generate(context.Background(), "section")
	assert.ErrorContains(t, err, "dalle down")
}

func TestImagePipeline_ConceptIsCapped(t *testing.T) {
	p := NewImagePipeline(&fakeCompleter{replies: []string{strings.Repeat("a", 1000)}}, &fakeImages{}, "", time.Second, nil)
	concept, err := p.Concept(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, concept, maxImagePromptLen)
}

func TestPrompts(t *testing.T) {
	sys := SystemPrompt("Ana")
	assert.Contains(t, sys, "written by Ana.")
	assert.NotContains(t, sys, "{{")

	p, err := SectionPrompt("Ana", SectionInput{URL: "https://x.example", AudioTranscript: "memo"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "Generate a Snapshot newsletter section for this article.\n\nURL: https://x.example\n\nAna's voice memo transcript"))
	assert.Contains(t, p, "Weave Ana's voice memo insights")
	assert.NotContains(t, p, "ARCHIVE CONTEXT")

	p, err = UpcomingEventsPrompt("Ana", EventsWindow{WeekStart: "a", WeekEnd: "b"})
	require.NoError(t, err)
	assert.NotContains(t, p, "Control Risks")

	assert.True(t, strings.HasPrefix(EditorialDNA(), "ABOUT THE NEWSLETTER:"))

	p, err = DiscoveryPrompt("Ana", DiscoveryInput{
		Today: "Monday, February 16, 2026", Start: "s", End: "e",
		Candidates: []DiscoveryCandidate{{Title: "Chips", Source: "FT", URL: "https://ft.example/c", Summary: "sum"}},
	})
	require.NoError(t, err)
	assert.Contains(t, p, "[1] Chips\nSource: FT\nURL: https://ft.example/c\nsum")
	assert.Contains(t, p, "TOPICS TO MONITOR")
}
