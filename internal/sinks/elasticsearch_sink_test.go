package sinks

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"metrics-sink/internal/models"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBulkServer emulates the _bulk endpoint. rejectPositions lists document positions
// (in request order) answered with a 400 mapper error.
type fakeBulkServer struct {
	t *testing.T

	mu              sync.Mutex
	requests        int
	lastPath        string
	lastEncoding    string
	lastActions     []map[string]map[string]string
	lastDocuments   []map[string]any
	rejectPositions map[int]bool
	handler         func(w http.ResponseWriter, r *http.Request) bool
}

func newFakeBulkServer(t *testing.T) (*fakeBulkServer, *httptest.Server) {
	fake := &fakeBulkServer{t: t, rejectPositions: map[int]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(srv.Close)
	return fake, srv
}

func (f *fakeBulkServer) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.lastPath = r.URL.Path
	f.lastEncoding = r.Header.Get("Content-Encoding")

	if f.handler != nil && f.handler(w, r) {
		return
	}

	var body io.Reader = r.Body
	if f.lastEncoding == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if !assert.NoError(f.t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body = gz
	}

	f.lastActions = nil
	f.lastDocuments = nil
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for lineNo := 0; scanner.Scan(); lineNo++ {
		if lineNo%2 == 0 {
			var action map[string]map[string]string
			assert.NoError(f.t, json.Unmarshal(scanner.Bytes(), &action))
			f.lastActions = append(f.lastActions, action)
		} else {
			var doc map[string]any
			assert.NoError(f.t, json.Unmarshal(scanner.Bytes(), &doc))
			f.lastDocuments = append(f.lastDocuments, doc)
		}
	}

	items := make([]map[string]any, 0, len(f.lastActions))
	hasErrors := false
	for i, action := range f.lastActions {
		entry := map[string]any{"_id": action["index"]["_id"], "status": 201}
		if f.rejectPositions[i] {
			hasErrors = true
			entry["status"] = 400
			entry["error"] = map[string]any{"type": "mapper_parsing_exception", "reason": "failed to parse field"}
		}
		items = append(items, map[string]any{"index": entry})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"took": 3, "errors": hasErrors, "items": items})
}

type bulkSnapshot struct {
	requests  int
	path      string
	encoding  string
	actions   []map[string]map[string]string
	documents []map[string]any
}

func (f *fakeBulkServer) snapshot() bulkSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return bulkSnapshot{
		requests:  f.requests,
		path:      f.lastPath,
		encoding:  f.lastEncoding,
		actions:   f.lastActions,
		documents: f.lastDocuments,
	}
}

func newTestSink(t *testing.T, url string, compress bool) BulkSink {
	sink, err := NewElasticsearchSink(ElasticsearchSinkConfig{
		Addresses:        []string{url},
		Index:            "logs-default",
		CompressRequests: compress,
	})
	require.NoError(t, err)
	return sink
}

func testBatch(n int) []models.Event {
	batch := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		ts := time.Date(2025, 12, 28, 18, 3, i, 0, time.UTC)
		batch = append(batch, models.NewIntegrationRequest(fmt.Sprintf("client-%d", i), ts, i, int64(i*100), float64(i)/2, true, "200", "test-agent"))
	}
	return batch
}

func TestElasticsearchSink_Submit_Success(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBulkServer(t)
	sink := newTestSink(t, srv.URL, false)
	batch := testBatch(3)

	result, err := sink.Submit(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, "logs-default", result.Index)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 0, result.FailedCount())
	assert.Equal(t, 3, result.SucceededCount())
	assert.False(t, result.HasFailures())

	snap := fake.snapshot()
	assert.Equal(t, 1, snap.requests)
	assert.Equal(t, "/logs-default/_bulk", snap.path)
	require.Len(t, snap.actions, 3)
	for i, action := range snap.actions {
		assert.Equal(t, batch[i].EventID(), action["index"]["_id"], "documents keep batch order")
		assert.Equal(t, fmt.Sprintf("client-%d", i), snap.documents[i]["client_id"])
	}
}

func TestElasticsearchSink_Submit_PartialFailure(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBulkServer(t)
	fake.rejectPositions[2] = true
	fake.rejectPositions[5] = true
	sink := newTestSink(t, srv.URL, false)
	batch := testBatch(10)

	result, err := sink.Submit(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 10, result.Total)
	require.Equal(t, 2, result.FailedCount())
	assert.Equal(t, 8, result.SucceededCount())
	assert.Equal(t, 2, result.Failed[0].Position)
	assert.Equal(t, 5, result.Failed[1].Position)
	assert.Equal(t, batch[2].EventID(), result.Failed[0].EventID)
	assert.Equal(t, 400, result.Failed[0].Status)
	assert.Equal(t, "mapper_parsing_exception", result.Failed[0].Type)
	assert.Contains(t, result.Failed[1].String(), "failed to parse field")
}

func TestElasticsearchSink_Submit_InvalidResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request) bool
		wantMsg string
	}{
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) bool {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"type":"illegal_argument_exception"}}`))
				return true
			},
			wantMsg: "status 400",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) bool {
				_, _ = w.Write([]byte(`{not json`))
				return true
			},
			wantMsg: "failed to decode body",
		},
		{
			name: "item count mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) bool {
				_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[{"index":{"status":201}}]}`))
				return true
			},
			wantMsg: "1 items in response for 2 documents",
		},
		{
			name: "unexpected action",
			handler: func(w http.ResponseWriter, r *http.Request) bool {
				_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[{"create":{"status":201}},{"create":{"status":201}}]}`))
				return true
			},
			wantMsg: "has no index action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeBulkServer(t)
			fake.handler = tt.handler
			sink := newTestSink(t, srv.URL, false)

			result, err := sink.Submit(context.Background(), testBatch(2))
			assert.Nil(t, result)
			require.ErrorIs(t, err, ErrInvalidResponse)
			assert.NotErrorIs(t, err, ErrTransport)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestElasticsearchSink_Submit_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sink := newTestSink(t, url, false)
	result, err := sink.Submit(context.Background(), testBatch(2))

	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrInvalidResponse)
}

func TestElasticsearchSink_Submit_ContextCancelled(t *testing.T) {
	t.Parallel()

	_, srv := newFakeBulkServer(t)
	sink := newTestSink(t, srv.URL, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sink.Submit(ctx, testBatch(1))
	assert.ErrorIs(t, err, ErrTransport)
}

func TestElasticsearchSink_Submit_Compressed(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBulkServer(t)
	sink := newTestSink(t, srv.URL, true)

	result, err := sink.Submit(context.Background(), testBatch(4))
	require.NoError(t, err)

	snap := fake.snapshot()
	assert.Equal(t, "gzip", snap.encoding)
	assert.Len(t, snap.actions, 4)
	assert.Equal(t, 0, result.FailedCount())
}

func TestElasticsearchSink_Submit_UnencodableItem(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBulkServer(t)
	sink := newTestSink(t, srv.URL, false)

	batch := testBatch(3)
	batch[1] = models.NewPriceUpdate("client-nan", time.Now(), math.NaN(), 1, 1, true)

	result, err := sink.Submit(context.Background(), batch)
	require.NoError(t, err)

	require.Equal(t, 1, result.FailedCount())
	assert.Equal(t, 1, result.Failed[0].Position)
	assert.Equal(t, "encoding_error", result.Failed[0].Type)
	snap := fake.snapshot()
	require.Len(t, snap.actions, 2)
	assert.Equal(t, batch[0].EventID(), snap.actions[0]["index"]["_id"])
	assert.Equal(t, batch[2].EventID(), snap.actions[1]["index"]["_id"])
}

func TestElasticsearchSink_Submit_ResponseFailureMapsToBatchPosition(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBulkServer(t)
	fake.rejectPositions[1] = true // second document sent, third in the batch
	sink := newTestSink(t, srv.URL, false)

	batch := testBatch(3)
	batch[0] = models.NewPriceUpdate("client-nan", time.Now(), math.Inf(1), 1, 1, true)

	result, err := sink.Submit(context.Background(), batch)
	require.NoError(t, err)

	require.Equal(t, 2, result.FailedCount())
	positions := []int{result.Failed[0].Position, result.Failed[1].Position}
	assert.ElementsMatch(t, []int{0, 2}, positions)
}

func TestElasticsearchSink_Submit_EmptyBatch(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBulkServer(t)
	sink := newTestSink(t, srv.URL, false)

	result, err := sink.Submit(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, fake.snapshot().requests, "empty batch makes no backend call")
}

func TestNewElasticsearchSink_RequiresIndex(t *testing.T) {
	t.Parallel()

	sink, err := NewElasticsearchSink(ElasticsearchSinkConfig{Addresses: []string{"http://localhost:9200"}})
	assert.Nil(t, sink)
	assert.Error(t, err)
}

func TestEncodeBulkBody_Format(t *testing.T) {
	t.Parallel()

	batch := testBatch(2)
	encoded := encodeBulkBody(batch)

	lines := strings.Split(strings.TrimRight(string(encoded.body), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, fmt.Sprintf(`{"index":{"_id":"%s"}}`, batch[0].EventID()), lines[0])
	assert.True(t, bytes.HasSuffix(encoded.body, []byte("\n")), "bulk body must end with newline")
	assert.Equal(t, []int{0, 1}, encoded.positions)
	assert.Empty(t, encoded.rejected)
}
