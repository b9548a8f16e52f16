package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitForReturnsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, WaitFor(ctx, time.Hour), context.Canceled)
}

func TestWaitForElapses(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WaitFor(context.Background(), time.Millisecond))
	assert.NoError(t, WaitFor(context.Background(), 0))
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		n      int
		expect time.Duration
	}{
		{name: "first attempt", n: 0, expect: time.Second},
		{name: "doubles", n: 2, expect: 4 * time.Second},
		{name: "capped", n: 10, expect: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Backoff(time.Second, 30*time.Second, tt.n))
		})
	}
}
