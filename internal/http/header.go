package http

import (
	"net/http"
	"strings"
)

const (
	headerRequestID    = "x-request-id"
	headerContentType  = "content-type"
	headerCacheControl = "cache-control"

	contentTypeJSON = "application/json"
)

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}

// setNoStore marks probe and status responses as uncacheable.
func setNoStore(w http.ResponseWriter) {
	w.Header().Set(headerCacheControl, "no-store")
}
