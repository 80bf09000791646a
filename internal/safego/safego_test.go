package safego

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitDone(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	Go(func() { close(done) })
	waitDone(t, done, "background function")
}

func TestGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})

	// Must not crash the test binary; the recover happens inside Go.
	Go(func() {
		defer close(done)
		panic("intentional panic in test")
	})

	waitDone(t, done, "panicking function")
}

func TestGo_IndependentGoroutines(t *testing.T) {
	var ran atomic.Int32
	done := make(chan struct{})

	// A panic in one launched function must not affect the others.
	Go(func() { panic("first one dies") })
	Go(func() {
		ran.Add(1)
		close(done)
	})

	waitDone(t, done, "surviving goroutine")
	if ran.Load() != 1 {
		t.Errorf("ran = %d, want 1", ran.Load())
	}
}
