package client

import (
	"context"

	"github.com/a-h/jsonapi"

	"github.com/a-h/urlsum/models"
)

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) SummariesPost(ctx context.Context, req models.SummariesPostRequest) (resp models.SummariesPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("summaries").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.SummariesPostRequest, models.SummariesPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
}
