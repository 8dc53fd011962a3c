// Package loader turns URLs into ordered sequences of extracted text
// segments, one schema.Document per segment.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

// Metadata keys set by loaders on the documents they return.
const (
	MetadataTitle  = "title"
	MetadataAuthor = "author"
	MetadataSource = "source"
)

type Loader interface {
	// Match reports whether this loader can handle the URL.
	Match(url string) bool
	// Load fetches the content at the URL and returns its text segments in
	// order. Failures to reach or parse the remote content are returned as
	// a FetchError.
	Load(ctx context.Context, url string) ([]schema.Document, error)
}

// ErrUnsupportedURL is returned by Registry.ForURL when no registered
// loader claims the URL.
var ErrUnsupportedURL = errors.New("Unsupported URL format")

// FetchError indicates that a loader could not retrieve or extract content
// from its remote source.
type FetchError struct {
	URL string
	Err error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("failed to load documents from %s: %v", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// Registry is a fixed ordered list of loaders. Order is significant: the
// first loader whose Match returns true wins, so the YouTube loader must be
// registered before the website loader.
type Registry struct {
	loaders []Loader
}

func NewRegistry(loaders ...Loader) Registry {
	return Registry{loaders: loaders}
}

func (r Registry) ForURL(url string) (Loader, error) {
	for _, l := range r.loaders {
		if l.Match(url) {
			return l, nil
		}
	}
	return nil, ErrUnsupportedURL
}

// isYouTubeURL reports whether the URL contains one of the known YouTube
// host fragments. Shared by the YouTube loader's Match and the website
// loader's exclusion check.
func isYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

// Title returns the title metadata of the first document that has one.
func Title(docs []schema.Document) string {
	for _, doc := range docs {
		if title, ok := doc.Metadata[MetadataTitle].(string); ok && title != "" {
			return title
		}
	}
	return ""
}
