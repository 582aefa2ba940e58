// Package goroutine provides a small manager for supervised goroutines.
//
// The manager bounds concurrency with a semaphore, recovers panics into
// errors, and lets the owner wait for all spawned work to finish during
// shutdown.
package goroutine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Manager runs functions in goroutines with bounded concurrency and
// panic recovery.
type Manager struct {
	wg     sync.WaitGroup
	sem    chan struct{}
	mu     sync.Mutex
	errors []error
}

// NewManager creates a Manager that allows at most maxConcurrent goroutines
// to run simultaneously. A non-positive value falls back to 100.
func NewManager(maxConcurrent int) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = 100
	}

	return &Manager{sem: make(chan struct{}, maxConcurrent)}
}

// Go runs fn in a new goroutine. It blocks while the concurrency limit is
// reached, unless ctx is done first. A panic inside fn is recovered and
// recorded as an error.
func (m *Manager) Go(ctx context.Context, fn func(ctx context.Context)) {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		m.record(ctx.Err())
		return
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "goroutine panic recovered",
					"panic", r, "stack", string(debug.Stack()))
				m.record(fmt.Errorf("panic recovered: %v", r))
			}
			<-m.sem
			m.wg.Done()
		}()

		fn(ctx)
	}()
}

// Loop runs fn every interval in a managed goroutine until ctx is done or fn
// returns false. The first invocation happens after one interval, not
// immediately.
func (m *Manager) Loop(ctx context.Context, interval time.Duration, fn func(ctx context.Context) bool) {
	m.Go(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !fn(ctx) {
					return
				}
			}
		}
	})
}

// Wait blocks until every goroutine started via Go has returned, or ctx is
// done. It returns the recorded errors, if any.
func (m *Manager) Wait(ctx context.Context) []error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.record(ctx.Err())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	errs := make([]error, len(m.errors))
	copy(errs, m.errors)

	return errs
}

func (m *Manager) record(err error) {
	if err == nil {
		return
	}

	m.mu.Lock()
	m.errors = append(m.errors, err)
	m.mu.Unlock()
}
