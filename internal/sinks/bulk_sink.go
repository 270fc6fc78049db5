package sinks

import (
	"context"
	"errors"
	"fmt"

	"metrics-sink/internal/models"
)

var (
	// ErrTransport means the batch never reached the backend.
	ErrTransport = errors.New("bulk transport failure")
	// ErrInvalidResponse means the backend answered but rejected or garbled the whole batch.
	ErrInvalidResponse = errors.New("bulk invalid response")
	ErrUnknownEventKind = errors.New("unknown event kind")
)

// BulkSink writes a whole batch in one backend call. It never retries; a returned
// error wraps ErrTransport or ErrInvalidResponse and means no item is known to be stored.
//
//go:generate mockgen -source=bulk_sink.go -destination=./mocks/bulk_sink_mock.go -package=mocks
type BulkSink interface {
	Submit(ctx context.Context, batch []models.Event) (*BulkResult, error)
	Index() string
}

// BulkResult is the per-item outcome of an accepted bulk call.
type BulkResult struct {
	Index  string
	Total  int
	Failed []ItemFailure
}

// ItemFailure describes one rejected document. Position indexes the submitted batch.
type ItemFailure struct {
	Position int
	EventID  string
	Status   int
	Type     string
	Reason   string
}

func (f ItemFailure) String() string {
	return fmt.Sprintf("#%d %s: %d %s: %s", f.Position, f.EventID, f.Status, f.Type, f.Reason)
}

func (r *BulkResult) FailedCount() int {
	if r == nil {
		return 0
	}
	return len(r.Failed)
}

func (r *BulkResult) SucceededCount() int {
	if r == nil {
		return 0
	}
	return r.Total - len(r.Failed)
}

func (r *BulkResult) HasFailures() bool {
	return r.FailedCount() > 0
}
