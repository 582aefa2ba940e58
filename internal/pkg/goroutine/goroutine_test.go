package goroutine

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGo_RunsAndWaits(t *testing.T) {
	// Arrange
	m := NewManager(2)
	done := make(chan struct{})

	// Act
	m.Go(context.Background(), func(context.Context) {
		close(done)
	})

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("goroutine did not run")
	}
	if errs := m.Wait(context.Background()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	// Arrange
	m := NewManager(1)

	// Act
	m.Go(context.Background(), func(context.Context) {
		panic("boom")
	})

	// Assert
	errs := m.Wait(context.Background())
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "boom") {
		t.Fatalf("expected recovered panic error, got %v", errs)
	}
}

func TestLoop_StopsWhenFnReturnsFalse(t *testing.T) {
	// Arrange
	m := NewManager(1)
	done := make(chan struct{})
	count := 0

	// Act
	m.Loop(context.Background(), time.Millisecond, func(context.Context) bool {
		count++
		if count == 3 {
			close(done)
			return false
		}
		return true
	})

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop did not reach third tick")
	}
	if errs := m.Wait(context.Background()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestLoop_StopsOnContextCancel(t *testing.T) {
	// Arrange
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())

	// Act
	m.Loop(ctx, time.Millisecond, func(context.Context) bool {
		return true
	})
	cancel()

	// Assert
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if errs := m.Wait(waitCtx); len(errs) != 0 {
		t.Fatalf("expected loop to stop on cancel, got %v", errs)
	}
}
