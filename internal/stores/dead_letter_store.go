package stores

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"metrics-sink/internal/models"
	"metrics-sink/internal/shared/filestorages"
	"metrics-sink/internal/shared/ulid"
	"metrics-sink/internal/sinks"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// DeadLetterRecord is one archived event that the backend did not store.
type DeadLetterRecord struct {
	ArchivedAt time.Time        `json:"archived_at"`
	Index      string           `json:"index"`
	Reason     string           `json:"reason"`
	EventID    string           `json:"event_id"`
	EventKind  models.EventKind `json:"event_kind"`
	Document   any              `json:"document"`
}

// DeadLetterStore archives undelivered events as gzip NDJSON objects, one object per call.
// Objects are never read back by the pipeline; the archive is for operators.
//
// Keys follow dead-letter/<index>/<ulid>.ndjson.gz so a listing sorts by time.
//
//go:generate mockgen -source=dead_letter_store.go -destination=./mocks/dead_letter_store_mock.go -package=mocks
type DeadLetterStore interface {
	Put(ctx context.Context, index string, reason string, events []models.Event) (string, error)
}

type deadLetterStore struct {
	fileStorage filestorages.FileStorage
	dir         string
	now         func() time.Time
}

func NewDeadLetterStore(fileStorage filestorages.FileStorage) DeadLetterStore {
	return &deadLetterStore{fileStorage: fileStorage, dir: "dead-letter", now: time.Now}
}

func (s *deadLetterStore) Put(ctx context.Context, index string, reason string, events []models.Event) (string, error) {
	if len(events) == 0 {
		return "", nil
	}

	data, err := s.encode(index, reason, events)
	if err != nil {
		return "", fmt.Errorf("failed to encode dead letter records: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.ndjson.gz", s.dir, index, ulid.NewULID())
	result, err := s.fileStorage.Put(ctx, key, bytes.NewReader(data), filestorages.PutOptions{
		AllowOverwrite: false,
		ContentType:    "application/gzip",
	})
	if err != nil {
		return "", fmt.Errorf("failed to put dead letter records: %w", err)
	}
	return result.FileKey, nil
}

func (s *deadLetterStore) encode(index string, reason string, events []models.Event) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)

	archivedAt := s.now().UTC()
	for _, event := range events {
		record := DeadLetterRecord{
			ArchivedAt: archivedAt,
			Index:      index,
			Reason:     reason,
			EventID:    event.EventID(),
			EventKind:  event.Kind(),
		}
		doc, err := sinks.Document(event)
		if err != nil {
			return nil, err
		}
		record.Document = doc
		if err := enc.Encode(record); err != nil {
			// Unencodable documents are archived by identity only.
			record.Document = nil
			if err := enc.Encode(record); err != nil {
				_ = gz.Close()
				return nil, err
			}
		}
	}

	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
