package queue

import (
	"context"
	"errors"

	"github.com/gemchajang/suno-batch-generator/internal/download"
	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/selector"
	"github.com/gemchajang/suno-batch-generator/internal/suno"
)

// ErrGenerationTimeout means the site never signalled completion
// within the configured generation timeout.
var ErrGenerationTimeout = errors.New("generation timed out")

// ErrPageUnreachable means the automation tab stopped responding and
// could not be revived within the page retry budget.
var ErrPageUnreachable = errors.New("automation page unreachable")

// ErrAlreadyRunning is returned by Start when the queue is running.
var ErrAlreadyRunning = errors.New("queue already running")

// ErrQueueRunning is returned by operations that need a stopped queue.
var ErrQueueRunning = errors.New("queue is running")

// Fault classifies a job failure for logs and retry decisions.
type Fault string

const (
	// FaultTargetNotFound: a required UI element never appeared
	// within its wait budget.
	FaultTargetNotFound Fault = "target-not-found"

	// FaultActionIneffective: a click or hover produced no DOM effect
	// after every dispatch method.
	FaultActionIneffective Fault = "action-ineffective"

	// FaultTimeout: generation or download exceeded its allotted time.
	FaultTimeout Fault = "timeout"

	// FaultRemoteRejection: the external API refused the request.
	FaultRemoteRejection Fault = "remote-rejection"

	// FaultAbort: user-initiated cancellation.
	FaultAbort Fault = "abort"

	// FaultUnknown: anything else.
	FaultUnknown Fault = "unknown"
)

// Classify maps an error from the job pipeline onto the fault
// taxonomy.
func Classify(err error) Fault {
	var statusErr *http.StatusError
	switch {
	case err == nil:
		return FaultUnknown
	case errors.Is(err, context.Canceled):
		return FaultAbort
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrGenerationTimeout):
		return FaultTimeout
	case errors.Is(err, selector.ErrNotFound), errors.Is(err, selector.ErrUnknownKey):
		return FaultTargetNotFound
	case errors.Is(err, download.ErrActionIneffective):
		return FaultActionIneffective
	case errors.Is(err, suno.ErrClipFailed), errors.Is(err, suno.ErrNotReady):
		return FaultRemoteRejection
	case errors.As(err, &statusErr):
		return FaultRemoteRejection
	default:
		return FaultUnknown
	}
}
