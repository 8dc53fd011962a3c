package post_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/a-h/urlsum/auth"
	post "github.com/a-h/urlsum/handlers/summaries/post"
	"github.com/a-h/urlsum/loader"
	"github.com/a-h/urlsum/models"
	"github.com/a-h/urlsum/pipeline"
	"github.com/a-h/urlsum/validate"
)

type fakeRunner struct {
	credential string
	url        string
	result     pipeline.Result
	err        error
}

func (r *fakeRunner) Run(ctx context.Context, credential, url string) (pipeline.Result, error) {
	r.credential = credential
	r.url = url
	return r.result, r.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postSummaries(t *testing.T, runner post.Runner, body, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	h := auth.New("", post.New(newTestLogger(), runner))
	req := httptest.NewRequest(http.MethodPost, "/summaries", strings.NewReader(body))
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSummariesPost(t *testing.T) {
	runner := &fakeRunner{
		result: pipeline.Result{
			Summary: "the summary",
			Title:   "Example",
			URL:     "https://example.com",
		},
	}
	w := postSummaries(t, runner, `{"url": "https://example.com"}`, "Bearer gsk_test123")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if runner.credential != "gsk_test123" {
		t.Errorf("expected credential to be passed through, got %q", runner.credential)
	}
	if runner.url != "https://example.com" {
		t.Errorf("expected URL to be passed through, got %q", runner.url)
	}
	var resp models.SummariesPostResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	expected := models.SummariesPostResponse{
		Summary: "the summary",
		Title:   "Example",
		URL:     "https://example.com",
	}
	if diff := cmp.Diff(expected, resp); diff != "" {
		t.Error(diff)
	}
}

func TestSummariesPostErrors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "invalid JSON returns 400",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "failed to decode body",
		},
		{
			name:           "validation failure returns 400",
			body:           `{"url": ""}`,
			err:            validate.Error{Message: validate.MsgMissingURL},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    validate.MsgMissingURL,
		},
		{
			name:           "unsupported URL returns 400",
			body:           `{"url": "https://example.com"}`,
			err:            loader.ErrUnsupportedURL,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Unsupported URL format",
		},
		{
			name:           "fetch failure returns 502",
			body:           `{"url": "https://example.com"}`,
			err:            loader.FetchError{URL: "https://example.com", Err: errors.New("connection refused")},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "failed to load documents",
		},
		{
			name:           "summarization failure returns 502",
			body:           `{"url": "https://example.com"}`,
			err:            errors.New("failed to generate summary: request timed out"),
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "failed to generate summary: request timed out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.err}
			w := postSummaries(t, runner, tt.body, "Bearer gsk_test123")
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.expectedMsg) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedMsg, w.Body.String())
			}
		})
	}
}
