package download

import (
	"context"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// Artifact is the byte source a retrieval strategy hands to the sink.
// Exactly one of URL and Data is set: URL when the audio can be fetched
// directly over HTTP, Data when the bytes were already pulled out of
// the page (blob links die with the tab, so they are fetched eagerly).
type Artifact struct {
	Clip      model.Clip
	URL       string
	Data      []byte
	Format    model.AudioFormat
	Subfolder string
}

// Sink persists a retrieved artifact and returns the path it was
// saved to.
type Sink interface {
	Save(ctx context.Context, art Artifact) (string, error)
}
