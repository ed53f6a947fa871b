package dto

// Clip statuses reported by the feed endpoint, in rough lifecycle
// order. "streaming" means a lightly-buffered compressed stream is
// already playable; "complete" means the render is fully finished.
const (
	StatusSubmitted = "submitted"
	StatusQueued    = "queued"
	StatusStreaming = "streaming"
	StatusComplete  = "complete"
	StatusError     = "error"
)

// Clip is one feed entry for a generated audio candidate.
type Clip struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	AudioURL string   `json:"audio_url"`
	VideoURL string   `json:"video_url"`
	ImageURL string   `json:"image_large_url"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the generation parameters echoed back by the site.
type Metadata struct {
	Tags         string `json:"tags"`
	Prompt       string `json:"prompt"`
	Duration     float64 `json:"duration"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// Streamable reports whether compressed audio can be fetched already.
func (c *Clip) Streamable() bool {
	return c.Status == StatusStreaming || c.Status == StatusComplete
}

// Finished reports whether the render is fully complete, which is the
// precondition for a lossless conversion.
func (c *Clip) Finished() bool {
	return c.Status == StatusComplete
}

// Failed reports whether generation of this clip errored remotely.
func (c *Clip) Failed() bool {
	return c.Status == StatusError
}
