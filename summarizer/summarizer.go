// Package summarizer produces a bounded-length summary of a set of
// documents with a single LLM call.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
)

const (
	DefaultModel    = "gemma-7b-it"
	DefaultMaxWords = 300
)

// promptTemplate is filled with the configured word count at construction
// time and the document text per call.
const promptTemplate = `Provide a summary of the following content in {{.word_count}} words: Content:{{.context}}`

// ErrNotInitialized is returned when the summarizer is constructed without
// a language model. No network call is made in that case.
var ErrNotInitialized = errors.New("language model not initialized")

type Config struct {
	// Model identifier sent to the provider, e.g. "gemma-7b-it".
	Model string
	// MaxWords is the target summary length in words.
	MaxWords int
}

func NewConfig() Config {
	return Config{
		Model:    DefaultModel,
		MaxWords: DefaultMaxWords,
	}
}

// New builds a Summarizer around an already constructed model client. All
// documents are stuffed into one prompt, so content larger than the model's
// context window fails at the remote call rather than being chunked.
func New(llm llms.Model, config Config) (*Summarizer, error) {
	if llm == nil {
		return nil, ErrNotInitialized
	}
	maxWords := config.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	// Partial variables must be strings, so the word count is rendered
	// into the template as one.
	prompt := prompts.PromptTemplate{
		Template:       promptTemplate,
		InputVariables: []string{"context"},
		PartialVariables: map[string]any{
			"word_count": strconv.Itoa(maxWords),
		},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}
	return &Summarizer{
		chain: chains.NewStuffDocuments(chains.NewLLMChain(llm, prompt)),
	}, nil
}

type Summarizer struct {
	chain chains.StuffDocuments
}

// Summarize makes exactly one model call with all document text stuffed
// into a single prompt.
func (s *Summarizer) Summarize(ctx context.Context, docs []schema.Document) (string, error) {
	out, err := chains.Call(ctx, s.chain, map[string]any{
		s.chain.InputKey: docs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	summary, ok := out[s.chain.LLMChain.OutputKey].(string)
	if !ok {
		return "", fmt.Errorf("failed to generate summary: unexpected chain output %T", out[s.chain.LLMChain.OutputKey])
	}
	return summary, nil
}
