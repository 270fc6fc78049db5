package sinks

import (
	"bytes"
	"fmt"
	"time"

	"metrics-sink/internal/models"

	json "github.com/goccy/go-json"
	"github.com/mileusna/useragent"
)

type requestMetricsDocument struct {
	TotalItems       int     `json:"total_items"`
	SizeBytes        int64   `json:"size_bytes"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

type integrationRequestDocument struct {
	Timestamp      time.Time              `json:"timestamp"`
	EventKind      models.EventKind       `json:"event_kind"`
	ClientID       string                 `json:"client_id"`
	RequestMetrics requestMetricsDocument `json:"request_metrics"`
	Success        bool                   `json:"success"`
	HttpStatus     string                 `json:"http_status"`
	UserAgent      string                 `json:"user_agent"`
	UserAgentName  string                 `json:"user_agent_name,omitempty"`
}

type priceUpdateDocument struct {
	Timestamp        time.Time        `json:"timestamp"`
	EventKind        models.EventKind `json:"event_kind"`
	ClientID         string           `json:"client_id"`
	ProcessingTimeMs float64          `json:"processing_time_ms"`
	TotalItems       int              `json:"total_items"`
	SizeBytes        int64            `json:"size_bytes"`
	Success          bool             `json:"success"`
}

type bulkAction struct {
	Index bulkActionMeta `json:"index"`
}

type bulkActionMeta struct {
	ID string `json:"_id"`
}

// Document maps an event to its stored JSON shape.
func Document(event models.Event) (any, error) {
	switch ev := event.(type) {
	case models.IntegrationRequest:
		return integrationRequestDocument{
			Timestamp: ev.Timestamp,
			EventKind: models.KindIntegrationRequest,
			ClientID:  ev.ClientID,
			RequestMetrics: requestMetricsDocument{
				TotalItems:       ev.TotalItems,
				SizeBytes:        ev.SizeBytes,
				ProcessingTimeMs: ev.ProcessingTimeMs,
			},
			Success:       ev.Success,
			HttpStatus:    ev.HttpStatus,
			UserAgent:     ev.UserAgent,
			UserAgentName: userAgentName(ev.UserAgent),
		}, nil
	case models.PriceUpdate:
		return priceUpdateDocument{
			Timestamp:        ev.Timestamp,
			EventKind:        models.KindPriceUpdate,
			ClientID:         ev.ClientID,
			ProcessingTimeMs: ev.ProcessingTimeMs,
			TotalItems:       ev.TotalItems,
			SizeBytes:        ev.SizeBytes,
			Success:          ev.Success,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEventKind, event)
	}
}

// userAgentName returns the parsed browser or client family, empty when unknown.
func userAgentName(ua string) string {
	if ua == "" {
		return ""
	}
	return useragent.Parse(ua).Name
}

// encodedBatch is the NDJSON body of one bulk call. positions maps each encoded
// document back to its index in the submitted batch.
type encodedBatch struct {
	body      []byte
	positions []int
	rejected  []ItemFailure
}

// encodeBulkBody writes one index action plus document per event. Events that
// cannot be encoded are reported as rejected and left out of the body.
func encodeBulkBody(batch []models.Event) *encodedBatch {
	var buf bytes.Buffer
	out := &encodedBatch{positions: make([]int, 0, len(batch))}

	for i, event := range batch {
		line, err := encodeBulkItem(event)
		if err != nil {
			out.rejected = append(out.rejected, ItemFailure{
				Position: i,
				EventID:  event.EventID(),
				Type:     "encoding_error",
				Reason:   err.Error(),
			})
			continue
		}
		buf.Write(line)
		out.positions = append(out.positions, i)
	}

	out.body = buf.Bytes()
	return out
}

func encodeBulkItem(event models.Event) ([]byte, error) {
	doc, err := Document(event)
	if err != nil {
		return nil, err
	}
	action, err := json.Marshal(bulkAction{Index: bulkActionMeta{ID: event.EventID()}})
	if err != nil {
		return nil, err
	}
	source, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	line := make([]byte, 0, len(action)+len(source)+2)
	line = append(line, action...)
	line = append(line, '\n')
	line = append(line, source...)
	line = append(line, '\n')
	return line, nil
}
