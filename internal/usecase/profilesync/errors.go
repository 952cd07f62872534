package profilesync

import (
	"errors"
	"fmt"
	"log"
)

var (
	ErrClosed                = errors.New("profile sync controller closed")
	ErrNotStarted            = errors.New("profile sync controller not started")
	ErrMutationInProgress    = errors.New("a profile deletion is already in progress")
	ErrNoPendingConfirmation = errors.New("no deletion awaiting confirmation")
	ErrUnknownProfile        = errors.New("profile not in current list")
)

type ErrorKind string

const (
	KindIdentityUnavailable ErrorKind = "identity_unavailable"
	KindLoadFailure         ErrorKind = "load_failure"
	KindDeleteFailure       ErrorKind = "delete_failure"
	KindCacheReadFailure    ErrorKind = "cache_read_failure"
)

// Reporter is the observability sink for failures caught at an operation
// boundary.
type Reporter interface {
	Report(kind ErrorKind, message string, cause error)
}

// LogReporter writes reports to a logger and counts them per kind.
type LogReporter struct {
	logger  *log.Logger
	metrics *Metrics
}

func NewLogReporter(logger *log.Logger, metrics *Metrics) *LogReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogReporter{logger: logger, metrics: metrics}
}

func (r *LogReporter) Report(kind ErrorKind, message string, cause error) {
	r.metrics.incReport(kind)
	r.logger.Print(formatReport(kind, message, cause))
}

func formatReport(kind ErrorKind, message string, cause error) string {
	if cause == nil {
		return fmt.Sprintf("[ProfileSync] %s | kind=%s", message, kind)
	}
	return fmt.Sprintf("[ProfileSync] %s | kind=%s error=%v", message, kind, cause)
}
