package post

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/respond"

	"github.com/a-h/urlsum/auth"
	"github.com/a-h/urlsum/loader"
	"github.com/a-h/urlsum/models"
	"github.com/a-h/urlsum/pipeline"
	"github.com/a-h/urlsum/validate"
)

// Runner is the pipeline surface the handler needs.
type Runner interface {
	Run(ctx context.Context, credential, url string) (pipeline.Result, error)
}

func New(log *slog.Logger, p Runner) Handler {
	return Handler{
		log:      log,
		pipeline: p,
	}
}

type Handler struct {
	log      *slog.Logger
	pipeline Runner
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	credential, _ := auth.GetCredential(r)

	var req models.SummariesPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Run(r.Context(), credential, req.URL)
	if err != nil {
		h.log.Error("failed to summarize", slog.String("url", req.URL), slog.Any("error", err))
		respond.WithError(w, err.Error(), statusFor(err))
		return
	}

	h.log.Info("summarized", slog.String("url", result.URL), slog.String("title", result.Title))
	respond.WithJSON(w, models.SummariesPostResponse{
		Summary: result.Summary,
		Title:   result.Title,
		URL:     result.URL,
	}, http.StatusOK)
}

// statusFor maps stage failures to status codes: bad input is the caller's
// fault, everything past validation failed at a remote collaborator.
func statusFor(err error) int {
	var ve validate.Error
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	if errors.Is(err, loader.ErrUnsupportedURL) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
