// Package llm constructs clients for the hosted model provider. Groq
// exposes an OpenAI compatible API, so the OpenAI client is pointed at the
// Groq base URL.
package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1"

type Config struct {
	// APIKey authorizing calls to the provider. Supplied per request and
	// never stored.
	APIKey string
	// Model identifier, e.g. "gemma-7b-it".
	Model string
	// BaseURL of the provider API. Defaults to the Groq endpoint.
	BaseURL string
	// HTTPClient used for provider calls. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// New constructs a model client. The credential is validated upstream, but
// an empty key is still rejected here so the factory cannot hand out a
// client that is guaranteed to fail.
func New(config Config) (llms.Model, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("missing API key")
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
		openai.WithBaseURL(baseURL),
	}
	if config.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(config.HTTPClient))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return model, nil
}
