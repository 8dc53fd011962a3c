package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	"github.com/tmc/langchaingo/llms"

	"github.com/a-h/urlsum/auth"
	summariespost "github.com/a-h/urlsum/handlers/summaries/post"
	"github.com/a-h/urlsum/llm"
	"github.com/a-h/urlsum/loader"
	"github.com/a-h/urlsum/pipeline"
	"github.com/a-h/urlsum/summarizer"
)

type ServeCommand struct {
	ListenAddr         string `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:9020"`
	ProviderURL        string `help:"The base URL of the model provider API." env:"PROVIDER_URL" default:"https://api.groq.com/openai/v1"`
	APIKey             string `help:"Default provider API key, used when a request carries no Authorization header." env:"GROQ_API_KEY" default:""`
	Model              string `help:"The model to summarize with." env:"MODEL" default:"gemma-7b-it"`
	MaxWords           int    `help:"The target summary length in words." env:"MAX_WORDS" default:"300"`
	UserAgent          string `help:"The User-Agent header sent when fetching web pages." env:"USER_AGENT" default:""`
	InsecureSkipVerify bool   `help:"Skip TLS certificate verification when fetching web pages. Weakens transport security." env:"INSECURE_SKIP_VERIFY" default:"false"`
	TLSCertFile        string `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile         string `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	LogLevel           string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	if c.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for web page fetches")
	}

	log.Info("creating loader registry")
	httpClient := &http.Client{}
	registry := loader.NewRegistry(
		loader.NewYouTube(log, httpClient),
		loader.NewWebsite(log, loader.WebsiteConfig{
			UserAgent:          c.UserAgent,
			InsecureSkipVerify: c.InsecureSkipVerify,
		}),
	)

	config := summarizer.Config{
		Model:    c.Model,
		MaxWords: c.MaxWords,
	}
	newLLM := func(credential string) (llms.Model, error) {
		return llm.New(llm.Config{
			APIKey:     credential,
			Model:      c.Model,
			BaseURL:    c.ProviderURL,
			HTTPClient: httpClient,
		})
	}
	p := pipeline.New(log, registry, config, newLLM)

	mux := http.NewServeMux()
	mux.Handle("POST /summaries", summariespost.New(log, p))

	withCredentialMux := auth.New(c.APIKey, mux)
	withCORSCredentialMux := cors.AllowAll().Handler(withCredentialMux)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: withCORSCredentialMux,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}
