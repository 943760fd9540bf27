package readiness

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_SignalReady(t *testing.T) {
	g := New()
	assert.Equal(t, Pending, g.Outcome())

	assert.True(t, g.Signal(true))
	assert.Equal(t, Ready, g.Outcome())
	assert.NoError(t, g.Wait(context.Background()))
}

func TestGate_SignalUnusable(t *testing.T) {
	g := New()
	g.Signal(false)

	err := g.Wait(context.Background())
	require.ErrorIs(t, err, ErrUnusable)
	assert.Equal(t, "catalog unusable", err.Error())
}

func TestGate_SignalOnce(t *testing.T) {
	g := New()
	assert.True(t, g.Signal(false))
	assert.False(t, g.Signal(true), "second signal must be a no-op")
	assert.False(t, g.Supersede())

	assert.ErrorIs(t, g.Wait(context.Background()), ErrUnusable)
}

func TestGate_Supersede(t *testing.T) {
	g := New()
	assert.True(t, g.Supersede())
	assert.False(t, g.Signal(true))

	assert.ErrorIs(t, g.Wait(context.Background()), ErrSuperseded)
	assert.Equal(t, "superseded", g.Outcome().String())
}

func TestGate_WaitContextCancelled(t *testing.T) {
	g := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, Pending, g.Outcome())
}

func TestGate_BroadcastToManyWaiters(t *testing.T) {
	for _, ok := range []bool{true, false} {
		g := New()
		const waiters = 50

		var wg sync.WaitGroup
		errs := make([]error, waiters)
		for i := 0; i < waiters; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = g.Wait(context.Background())
			}(i)
		}

		g.Signal(ok)
		wg.Wait()

		for i, err := range errs {
			if ok {
				assert.NoError(t, err, "waiter %d", i)
			} else {
				assert.ErrorIs(t, err, ErrUnusable, "waiter %d", i)
			}
		}
	}
}

func TestGate_ConcurrentSignal(t *testing.T) {
	g := New()

	var wg sync.WaitGroup
	wins := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wins <- g.Signal(i%2 == 0)
		}(i)
	}
	wg.Wait()
	close(wins)

	count := 0
	for w := range wins {
		if w {
			count++
		}
	}
	assert.Equal(t, 1, count, "exactly one signal settles the gate")
}

func TestGate_Done(t *testing.T) {
	g := New()
	select {
	case <-g.Done():
		t.Fatal("pending gate must not be done")
	default:
	}

	g.Signal(true)
	select {
	case <-g.Done():
	default:
		t.Fatal("settled gate must be done")
	}
}
