package flushers

import "time"

// Trigger names the threshold that caused a flush.
type Trigger string

const (
	TriggerNone     Trigger = ""
	TriggerSize     Trigger = "size"
	TriggerInterval Trigger = "interval"
	TriggerDrain    Trigger = "drain"
)

// FlushPolicy flushes when the buffer reaches MaxBatchSize or when MaxFlushInterval
// has elapsed since the last flush. An empty buffer never flushes.
type FlushPolicy struct {
	MaxBatchSize     int
	MaxFlushInterval time.Duration
}

func NewFlushPolicy(maxBatchSize int, maxFlushInterval time.Duration) FlushPolicy {
	return FlushPolicy{MaxBatchSize: maxBatchSize, MaxFlushInterval: maxFlushInterval}
}

func (p FlushPolicy) ShouldFlush(bufferSize int, sinceLastFlush time.Duration) bool {
	return p.Evaluate(bufferSize, sinceLastFlush) != TriggerNone
}

// Evaluate is ShouldFlush reporting which threshold fired. Size wins when both hold.
func (p FlushPolicy) Evaluate(bufferSize int, sinceLastFlush time.Duration) Trigger {
	if bufferSize <= 0 {
		return TriggerNone
	}
	if bufferSize >= p.MaxBatchSize {
		return TriggerSize
	}
	if sinceLastFlush >= p.MaxFlushInterval {
		return TriggerInterval
	}
	return TriggerNone
}
