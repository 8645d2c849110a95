package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner("Routing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() should be true after Stop")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Routing...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after parent cancellation")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should be true after parent cancellation")
	}
	s.Stop() // no-op after the goroutine exited
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Routing...")
	s.Start()

	s.Stop()
	s.Stop()
	s.StopWithSuccess("Done")
	s.StopWithError("Failed")
}
