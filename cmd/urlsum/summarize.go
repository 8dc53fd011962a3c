package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/a-h/urlsum/client"
	"github.com/a-h/urlsum/models"
)

type SummarizeCommand struct {
	URL       string `arg:"" help:"The YouTube or web page URL to summarize."`
	ServerURL string `help:"The URL of the summarization server." env:"URLSUM_SERVER_URL" default:"http://localhost:9020"`
	APIKey    string `help:"The provider API key." env:"GROQ_API_KEY" default:""`
	Format    string `help:"Output format, text or yaml." enum:"text,yaml" env:"FORMAT" default:"text"`
	LogLevel  string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c SummarizeCommand) Run(ctx context.Context) (err error) {
	sc := client.New(c.ServerURL, c.APIKey)
	resp, err := sc.SummariesPost(ctx, models.SummariesPostRequest{
		URL: c.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}
	if c.Format == "yaml" {
		return yaml.NewEncoder(os.Stdout).Encode(resp)
	}
	if resp.Title != "" {
		fmt.Println(resp.Title)
		fmt.Println()
	}
	fmt.Println(resp.Summary)
	return nil
}
