package models

type SummariesPostRequest struct {
	// URL of the YouTube video or web page to summarize.
	URL string `json:"url"`
}

type SummariesPostResponse struct {
	Summary string `json:"summary"`
	// Title of the source document, e.g. the video or article title,
	// when the loader was able to extract one.
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}
