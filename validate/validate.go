// Package validate checks the user-supplied API key and URL before any
// network call is made. The messages are user facing and returned verbatim.
package validate

import (
	"net/url"
	"strings"

	"mvdan.cc/xurls/v2"
)

const (
	MsgMissingAPIKey = "Please provide a valid API Key"
	MsgMissingURL    = "Please provide a URL"
	MsgInvalidURL    = "Please enter a valid URL. It can be a YouTube URL or a website URL."
)

// Error is a validation failure. The Message is shown to the user as-is.
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}

var strictURL = xurls.Strict()

// APIKey requires a non-empty credential after trimming whitespace.
func APIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return Error{Message: MsgMissingAPIKey}
	}
	return nil
}

// URL requires an absolute http or https URL with a host. The xurls strict
// matcher must claim the whole string, so partial matches such as
// "see https://example.com" are rejected.
func URL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Error{Message: MsgMissingURL}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Error{Message: MsgInvalidURL}
	}
	if strictURL.FindString(raw) != raw {
		return Error{Message: MsgInvalidURL}
	}
	return nil
}

// Inputs checks the credential first, then the URL, returning the first
// failure.
func Inputs(key, rawURL string) error {
	if err := APIKey(key); err != nil {
		return err
	}
	return URL(rawURL)
}
