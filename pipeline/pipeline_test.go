package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/a-h/urlsum/loader"
	"github.com/a-h/urlsum/pipeline"
	"github.com/a-h/urlsum/summarizer"
	"github.com/a-h/urlsum/validate"
)

type fakeModel struct {
	prompts []string
	content string
	err     error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.content}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

type fakeLoader struct {
	matches bool
	docs    []schema.Document
	err     error
	calls   int
}

func (l *fakeLoader) Match(url string) bool {
	return l.matches
}

func (l *fakeLoader) Load(ctx context.Context, url string) ([]schema.Document, error) {
	l.calls++
	return l.docs, l.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(model *fakeModel, loaders ...loader.Loader) (pipeline.Pipeline, *int) {
	factoryCalls := new(int)
	factory := func(credential string) (llms.Model, error) {
		*factoryCalls++
		return model, nil
	}
	p := pipeline.New(newTestLogger(), loader.NewRegistry(loaders...), summarizer.NewConfig(), factory)
	return p, factoryCalls
}

func TestPipelineValidation(t *testing.T) {
	tests := []struct {
		name        string
		credential  string
		url         string
		expectedMsg string
	}{
		{
			name:        "empty credential",
			credential:  " ",
			url:         "https://example.com",
			expectedMsg: validate.MsgMissingAPIKey,
		},
		{
			name:        "empty URL",
			credential:  "gsk_test123",
			url:         "",
			expectedMsg: validate.MsgMissingURL,
		},
		{
			name:        "malformed URL",
			credential:  "gsk_test123",
			url:         "not a url",
			expectedMsg: validate.MsgInvalidURL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLoader{matches: true, docs: []schema.Document{{PageContent: "text"}}}
			p, factoryCalls := newPipeline(&fakeModel{content: "summary"}, l)
			_, err := p.Run(context.Background(), tt.credential, tt.url)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if *factoryCalls != 0 {
				t.Errorf("expected no model client to be constructed, got %d", *factoryCalls)
			}
			if l.calls != 0 {
				t.Errorf("expected no loader call, got %d", l.calls)
			}
		})
	}
}

func TestPipelineUnsupportedURL(t *testing.T) {
	p, _ := newPipeline(&fakeModel{content: "summary"}, &fakeLoader{matches: false})
	_, err := p.Run(context.Background(), "gsk_test123", "https://example.com")
	if !errors.Is(err, loader.ErrUnsupportedURL) {
		t.Errorf("expected ErrUnsupportedURL, got %v", err)
	}
}

func TestPipelineModelInitFailure(t *testing.T) {
	factory := func(credential string) (llms.Model, error) {
		return nil, errors.New("bad credential")
	}
	l := &fakeLoader{matches: true}
	p := pipeline.New(newTestLogger(), loader.NewRegistry(l), summarizer.NewConfig(), factory)
	_, err := p.Run(context.Background(), "gsk_test123", "https://example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "failed to initialize language model") {
		t.Errorf("expected model init failure, got %q", err.Error())
	}
	if l.calls != 0 {
		t.Errorf("expected no loader call after init failure, got %d", l.calls)
	}
}

func TestPipelineFetchFailure(t *testing.T) {
	fetchErr := loader.FetchError{URL: "https://example.com", Err: errors.New("connection refused")}
	model := &fakeModel{content: "summary"}
	p, _ := newPipeline(model, &fakeLoader{matches: true, err: fetchErr})
	_, err := p.Run(context.Background(), "gsk_test123", "https://example.com")
	var fe loader.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if len(model.prompts) != 0 {
		t.Errorf("expected no model call after fetch failure, got %d", len(model.prompts))
	}
}

func TestPipelineSummarizationFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limit exceeded")}
	docs := []schema.Document{{PageContent: "some text"}}
	p, _ := newPipeline(model, &fakeLoader{matches: true, docs: docs})
	_, err := p.Run(context.Background(), "gsk_test123", "https://example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "failed to generate summary: ") {
		t.Errorf("expected summary failure, got %q", err.Error())
	}
}

func TestPipelineSuccess(t *testing.T) {
	article := strings.Repeat("word ", 1000)
	docs := []schema.Document{{
		PageContent: strings.TrimSpace(article),
		Metadata:    map[string]any{loader.MetadataTitle: "A Long Article"},
	}}
	model := &fakeModel{content: "the summary"}
	p, _ := newPipeline(model, &fakeLoader{matches: true, docs: docs})

	result, err := p.Run(context.Background(), "gsk_test123", "https://example.com/articles/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "the summary" {
		t.Errorf("expected %q, got %q", "the summary", result.Summary)
	}
	if result.Title != "A Long Article" {
		t.Errorf("expected title %q, got %q", "A Long Article", result.Title)
	}
	if len(model.prompts) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(model.prompts))
	}
	if !strings.Contains(model.prompts[0], "in 300 words") {
		t.Errorf("expected 300 word target in prompt, got %q", model.prompts[0])
	}
}

func TestPipelineIsIdempotent(t *testing.T) {
	docs := []schema.Document{{PageContent: "some text"}}
	model := &fakeModel{content: "the summary"}
	p, _ := newPipeline(model, &fakeLoader{matches: true, docs: docs})

	first, err := p.Run(context.Background(), "gsk_test123", "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Run(context.Background(), "gsk_test123", "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}
