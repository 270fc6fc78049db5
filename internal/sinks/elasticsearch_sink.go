package sinks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"metrics-sink/internal/models"
	"metrics-sink/internal/shared/metrics"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

const maxErrorBodyBytes = 4096

// ElasticsearchSinkConfig configures the bulk client.
type ElasticsearchSinkConfig struct {
	Addresses        []string
	Username         string
	Password         string
	Index            string
	CompressRequests bool
	Transport        http.RoundTripper
}

type elasticsearchSink struct {
	client   *elasticsearch.Client
	index    string
	compress bool
}

// NewElasticsearchSink builds a sink writing every batch to one fixed index.
// Transport-level retries are left to the client's defaults.
func NewElasticsearchSink(cfg ElasticsearchSinkConfig) (BulkSink, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &elasticsearchSink{
		client:   client,
		index:    cfg.Index,
		compress: cfg.CompressRequests,
	}, nil
}

func (s *elasticsearchSink) Index() string {
	return s.index
}

// bulkResponse is the subset of the _bulk response body the sink reads.
type bulkResponse struct {
	Took   int64                          `json:"took"`
	Errors bool                           `json:"errors"`
	Items  []map[string]bulkResponseEntry `json:"items"`
}

type bulkResponseEntry struct {
	ID     string          `json:"_id"`
	Status int             `json:"status"`
	Error  *bulkEntryError `json:"error,omitempty"`
}

type bulkEntryError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (s *elasticsearchSink) Submit(ctx context.Context, batch []models.Event) (*BulkResult, error) {
	result := &BulkResult{Index: s.index, Total: len(batch)}
	if len(batch) == 0 {
		return result, nil
	}

	start := time.Now()
	encoded := encodeBulkBody(batch)
	result.Failed = append(result.Failed, encoded.rejected...)
	if len(encoded.positions) == 0 {
		metricBulkRequestsTotal.WithLabelValues(outcomePartial).Inc()
		metricItemsRejectedTotal.Add(float64(result.FailedCount()))
		return result, nil
	}

	failures, err := s.send(ctx, encoded, batch)
	metricBulkLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metricBulkRequestsTotal.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}

	result.Failed = append(result.Failed, failures...)
	if result.HasFailures() {
		metricBulkRequestsTotal.WithLabelValues(outcomePartial).Inc()
		metricItemsRejectedTotal.Add(float64(result.FailedCount()))
	} else {
		metricBulkRequestsTotal.WithLabelValues(metrics.ValueNoError).Inc()
	}
	return result, nil
}

func (s *elasticsearchSink) send(ctx context.Context, encoded *encodedBatch, batch []models.Event) ([]ItemFailure, error) {
	body, headers, err := s.requestBody(encoded.body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	opts := []func(*esapi.BulkRequest){
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithIndex(s.index),
	}
	if len(headers) > 0 {
		opts = append(opts, s.client.Bulk.WithHeader(headers))
	}

	res, err := s.client.Bulk(body, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, res.StatusCode, bytes.TrimSpace(snippet))
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode body: %w", ErrInvalidResponse, err)
	}
	if len(parsed.Items) != len(encoded.positions) {
		return nil, fmt.Errorf("%w: %d items in response for %d documents", ErrInvalidResponse, len(parsed.Items), len(encoded.positions))
	}

	var failures []ItemFailure
	for i, item := range parsed.Items {
		entry, ok := item["index"]
		if !ok {
			return nil, fmt.Errorf("%w: item %d has no index action", ErrInvalidResponse, i)
		}
		if entry.Error == nil && entry.Status < 300 {
			continue
		}
		position := encoded.positions[i]
		failure := ItemFailure{
			Position: position,
			EventID:  batch[position].EventID(),
			Status:   entry.Status,
		}
		if entry.Error != nil {
			failure.Type = entry.Error.Type
			failure.Reason = entry.Error.Reason
		}
		failures = append(failures, failure)
	}
	return failures, nil
}

func (s *elasticsearchSink) requestBody(ndjson []byte) (io.Reader, map[string]string, error) {
	if !s.compress {
		return bytes.NewReader(ndjson), nil, nil
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(ndjson); err != nil {
		return nil, nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, nil, err
	}
	return &buf, map[string]string{"Content-Encoding": "gzip"}, nil
}
