package models

import "fmt"

type EventKind string

const (
	KindIntegrationRequest EventKind = "integration_request"
	KindPriceUpdate        EventKind = "price_update"
)

func NewEventKindFromString(s string) (EventKind, error) {
	switch EventKind(s) {
	case KindIntegrationRequest:
		return KindIntegrationRequest, nil
	case KindPriceUpdate:
		return KindPriceUpdate, nil
	default:
		return "", fmt.Errorf("invalid event kind: %q", s)
	}
}

func (k EventKind) String() string {
	return string(k)
}
