package models

import (
	"time"

	"metrics-sink/internal/shared/ulid"
)

// Event is one observation destined for the bulk sink. Implementations are value
// types and the set is closed: IntegrationRequest and PriceUpdate.
type Event interface {
	EventID() string
	Kind() EventKind
	EventTime() time.Time

	sealed()
}

// IntegrationRequest describes one completed integration request of a client.
type IntegrationRequest struct {
	ID               string
	Timestamp        time.Time
	ClientID         string
	TotalItems       int
	SizeBytes        int64
	ProcessingTimeMs float64
	Success          bool
	HttpStatus       string
	UserAgent        string
}

// NewIntegrationRequest stamps a new record with a ULID and a UTC timestamp.
func NewIntegrationRequest(clientID string, timestamp time.Time, totalItems int, sizeBytes int64,
	processingTimeMs float64, success bool, httpStatus string, userAgent string) IntegrationRequest {
	return IntegrationRequest{
		ID:               ulid.NewULID(),
		Timestamp:        timestamp.UTC(),
		ClientID:         clientID,
		TotalItems:       totalItems,
		SizeBytes:        sizeBytes,
		ProcessingTimeMs: processingTimeMs,
		Success:          success,
		HttpStatus:       httpStatus,
		UserAgent:        userAgent,
	}
}

func (e IntegrationRequest) EventID() string      { return e.ID }
func (e IntegrationRequest) Kind() EventKind      { return KindIntegrationRequest }
func (e IntegrationRequest) EventTime() time.Time { return e.Timestamp }
func (IntegrationRequest) sealed()                {}

// PriceUpdate describes one processed price update submission.
type PriceUpdate struct {
	ID               string
	Timestamp        time.Time
	ClientID         string
	ProcessingTimeMs float64
	TotalItems       int
	SizeBytes        int64
	Success          bool
}

func NewPriceUpdate(clientID string, timestamp time.Time, processingTimeMs float64, totalItems int,
	sizeBytes int64, success bool) PriceUpdate {
	return PriceUpdate{
		ID:               ulid.NewULID(),
		Timestamp:        timestamp.UTC(),
		ClientID:         clientID,
		ProcessingTimeMs: processingTimeMs,
		TotalItems:       totalItems,
		SizeBytes:        sizeBytes,
		Success:          success,
	}
}

func (e PriceUpdate) EventID() string      { return e.ID }
func (e PriceUpdate) Kind() EventKind      { return KindPriceUpdate }
func (e PriceUpdate) EventTime() time.Time { return e.Timestamp }
func (PriceUpdate) sealed()                {}
