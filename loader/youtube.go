package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

// The ANDROID client is used because its player responses include caption
// track URLs without requiring signature deciphering.
const (
	innertubeURL           = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"
	innertubeClientName    = "ANDROID"
	innertubeClientVersion = "19.09.37"
	innertubeUserAgent     = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"
)

func NewYouTube(log *slog.Logger, client *http.Client) *YouTube {
	if client == nil {
		client = http.DefaultClient
	}
	return &YouTube{
		log:    log,
		client: client,
	}
}

// YouTube loads the transcript of a YouTube video, one document per caption
// event, with the video title and channel name as metadata.
type YouTube struct {
	log    *slog.Logger
	client *http.Client
}

func (y *YouTube) Match(url string) bool {
	return isYouTubeURL(url)
}

func (y *YouTube) Load(ctx context.Context, rawURL string) ([]schema.Document, error) {
	id, err := VideoID(rawURL)
	if err != nil {
		return nil, FetchError{URL: rawURL, Err: err}
	}
	y.log.Debug("fetching player response", slog.String("videoID", id))
	pr, err := y.player(ctx, id)
	if err != nil {
		return nil, FetchError{URL: rawURL, Err: err}
	}
	if pr.PlayabilityStatus.Status != "OK" {
		reason := pr.PlayabilityStatus.Reason
		if reason == "" {
			reason = pr.PlayabilityStatus.Status
		}
		return nil, FetchError{URL: rawURL, Err: fmt.Errorf("video is not playable: %s", reason)}
	}
	track, ok := selectCaptionTrack(pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks)
	if !ok {
		return nil, FetchError{URL: rawURL, Err: errors.New("no captions available")}
	}
	segments, err := y.transcript(ctx, track.BaseURL)
	if err != nil {
		return nil, FetchError{URL: rawURL, Err: err}
	}
	if len(segments) == 0 {
		return nil, FetchError{URL: rawURL, Err: errors.New("transcript is empty")}
	}

	metadata := map[string]any{
		MetadataSource: rawURL,
	}
	if pr.VideoDetails.Title != "" {
		metadata[MetadataTitle] = pr.VideoDetails.Title
	}
	if pr.VideoDetails.Author != "" {
		metadata[MetadataAuthor] = pr.VideoDetails.Author
	}
	docs := make([]schema.Document, len(segments))
	for i, segment := range segments {
		// Each document gets its own copy so that mutating one
		// document's metadata cannot leak into the others.
		docs[i] = schema.Document{
			PageContent: segment,
			Metadata:    maps.Clone(metadata),
		}
	}
	return docs, nil
}

var videoIDPattern = regexp.MustCompile(`^[\w-]{11}$`)

// VideoID extracts the 11 character video identifier from the watch, short
// link, shorts, embed and live URL forms.
func VideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL: %w", err)
	}
	var id string
	if strings.Contains(u.Host, "youtu.be") {
		id = strings.TrimPrefix(u.Path, "/")
		if i := strings.Index(id, "/"); i >= 0 {
			id = id[:i]
		}
	} else {
		id = u.Query().Get("v")
		if id == "" {
			for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
				if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
					id = rest
					if i := strings.Index(id, "/"); i >= 0 {
						id = id[:i]
					}
					break
				}
			}
		}
	}
	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("no video ID in URL %q", rawURL)
	}
	return id, nil
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID string `json:"videoId"`
		Title   string `json:"title"`
		Author  string `json:"author"`
	} `json:"videoDetails"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for automatically generated captions.
	Kind string `json:"kind"`
}

func (y *YouTube) player(ctx context.Context, videoID string) (pr playerResponse, err error) {
	body, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":        innertubeClientName,
				"clientVersion":     innertubeClientVersion,
				"androidSdkVersion": 30,
				"hl":                "en",
			},
		},
		"videoId": videoID,
	})
	if err != nil {
		return pr, fmt.Errorf("failed to marshal player request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, innertubeURL, bytes.NewReader(body))
	if err != nil {
		return pr, fmt.Errorf("failed to create player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", innertubeUserAgent)
	resp, err := y.client.Do(req)
	if err != nil {
		return pr, fmt.Errorf("failed to fetch player response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return pr, fmt.Errorf("player request returned status %d", resp.StatusCode)
	}
	if err = json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return pr, fmt.Errorf("failed to decode player response: %w", err)
	}
	return pr, nil
}

// selectCaptionTrack prefers manually created English captions, then any
// manually created track, then automatic English captions, then whatever is
// first.
func selectCaptionTrack(tracks []captionTrack) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	isEnglish := func(t captionTrack) bool {
		return t.LanguageCode == "en" || strings.HasPrefix(t.LanguageCode, "en-")
	}
	for _, t := range tracks {
		if t.Kind != "asr" && isEnglish(t) {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if isEnglish(t) {
			return t, true
		}
	}
	return tracks[0], true
}

type timedText struct {
	Events []timedTextEvent `json:"events"`
}

type timedTextEvent struct {
	Segs []timedTextSeg `json:"segs"`
}

type timedTextSeg struct {
	UTF8 string `json:"utf8"`
}

func (y *YouTube) transcript(ctx context.Context, baseURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"&fmt=json3", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("User-Agent", innertubeUserAgent)
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcript request returned status %d", resp.StatusCode)
	}
	var tt timedText
	if err = json.NewDecoder(resp.Body).Decode(&tt); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return parseTranscript(tt), nil
}

func parseTranscript(tt timedText) (segments []string) {
	for _, event := range tt.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		segment := strings.TrimSpace(sb.String())
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
