// Package pipeline sequences the summarization stages: validate inputs,
// construct the model client, load the document, summarize. The first
// failure is terminal; there are no retries and no state survives a run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/a-h/urlsum/loader"
	"github.com/a-h/urlsum/summarizer"
	"github.com/a-h/urlsum/validate"
)

// LLMFactory constructs a model client from a per-request credential.
type LLMFactory func(credential string) (llms.Model, error)

func New(log *slog.Logger, registry loader.Registry, config summarizer.Config, newLLM LLMFactory) Pipeline {
	return Pipeline{
		log:      log,
		registry: registry,
		config:   config,
		newLLM:   newLLM,
	}
}

// Pipeline carries only immutable configuration, so a single value can be
// shared across concurrent requests.
type Pipeline struct {
	log      *slog.Logger
	registry loader.Registry
	config   summarizer.Config
	newLLM   LLMFactory
}

type Result struct {
	Summary string
	Title   string
	URL     string
}

// Run executes the stages in order and returns the summary of the content
// at the URL, or the first stage failure.
func (p Pipeline) Run(ctx context.Context, credential, url string) (result Result, err error) {
	if err = validate.Inputs(credential, url); err != nil {
		return result, err
	}

	model, err := p.newLLM(credential)
	if err != nil {
		return result, fmt.Errorf("failed to initialize language model: %w", err)
	}
	s, err := summarizer.New(model, p.config)
	if err != nil {
		return result, err
	}

	l, err := p.registry.ForURL(url)
	if err != nil {
		return result, err
	}
	p.log.Info("loading documents", slog.String("url", url), slog.String("loader", fmt.Sprintf("%T", l)))
	docs, err := l.Load(ctx, url)
	if err != nil {
		return result, err
	}

	p.log.Info("summarizing", slog.String("url", url), slog.Int("segments", len(docs)))
	summary, err := s.Summarize(ctx, docs)
	if err != nil {
		return result, err
	}
	return Result{
		Summary: summary,
		Title:   loader.Title(docs),
		URL:     url,
	}, nil
}
