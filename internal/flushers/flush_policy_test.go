package flushers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlushPolicy_Evaluate(t *testing.T) {
	t.Parallel()

	policy := NewFlushPolicy(3, 5*time.Second)

	tests := []struct {
		name           string
		bufferSize     int
		sinceLastFlush time.Duration
		want           Trigger
	}{
		{name: "empty buffer before interval", bufferSize: 0, sinceLastFlush: time.Second, want: TriggerNone},
		{name: "empty buffer after interval", bufferSize: 0, sinceLastFlush: time.Hour, want: TriggerNone},
		{name: "partial buffer before interval", bufferSize: 2, sinceLastFlush: 4 * time.Second, want: TriggerNone},
		{name: "size reached before interval", bufferSize: 3, sinceLastFlush: 0, want: TriggerSize},
		{name: "size exceeded", bufferSize: 7, sinceLastFlush: time.Second, want: TriggerSize},
		{name: "interval reached exactly", bufferSize: 1, sinceLastFlush: 5 * time.Second, want: TriggerInterval},
		{name: "interval exceeded", bufferSize: 2, sinceLastFlush: time.Minute, want: TriggerInterval},
		{name: "both thresholds hold", bufferSize: 3, sinceLastFlush: time.Minute, want: TriggerSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Evaluate(tt.bufferSize, tt.sinceLastFlush)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != TriggerNone, policy.ShouldFlush(tt.bufferSize, tt.sinceLastFlush))
		})
	}
}

func TestFlushPolicy_NegativeBufferNeverFlushes(t *testing.T) {
	t.Parallel()

	policy := NewFlushPolicy(1, 0)
	assert.False(t, policy.ShouldFlush(-1, time.Hour))
}
