package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(48 * time.Hour)
	assert.Equal(t, start.Add(48*time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestFakeClock_Concurrent(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
			_ = c.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(100*time.Second), c.Now())
}

func TestRecordingSleeper(t *testing.T) {
	s := &RecordingSleeper{}
	assert.NoError(t, s.Sleep(context.Background(), time.Second))
	assert.NoError(t, s.Sleep(context.Background(), 2*time.Second))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, s.Delays())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Sleep(ctx, time.Minute), context.Canceled)
}

func TestFixedRunIDGenerator(t *testing.T) {
	assert.Equal(t, "run-1", NewFixedRunIDGenerator("run-1").Generate())
	assert.Equal(t, "test-run", NewFixedRunIDGenerator("").Generate())
}
