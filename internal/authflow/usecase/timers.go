package usecase

import (
	"context"
	"time"

	"github.com/passgate/passgate/internal/authflow/entity"
)

const tickInterval = time.Second

func (f *Flow) stopCountdownLocked() {
	if f.cancelCountdown != nil {
		f.cancelCountdown()
		f.cancelCountdown = nil
	}
}

func (f *Flow) stopSessionLocked() {
	if f.cancelSession != nil {
		f.cancelSession()
		f.cancelSession = nil
	}
}

func (f *Flow) stopTimersLocked() {
	f.stopCountdownLocked()
	f.stopSessionLocked()
}

// startCountdownLocked starts the 1 Hz countdown for email. The counter is
// local to the timer; each tick publishes it into the state through
// tickCountdown. Callers hold f.mu.
func (f *Flow) startCountdownLocked(email string, seconds int) {
	ctx, cancel := context.WithCancel(f.ctx)
	f.cancelCountdown = cancel

	remaining := seconds
	f.goroutine.Loop(ctx, tickInterval, func(_ context.Context) bool {
		remaining--
		return f.tickCountdown(email, remaining)
	})
}

// tickCountdown publishes one countdown step. It reports false when the
// timer must stop: the countdown reached zero, or the state is no longer
// code entry for the same identity. A stale timer never writes anything.
func (f *Flow) tickCountdown(email string, remaining int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.currentOtpEntryLocked()
	if !ok || cur.Email != email {
		return false
	}

	if remaining < 0 {
		remaining = 0
	}
	cur.RemainingSeconds = remaining
	f.replaceLocked(cur)

	return remaining > 0
}

// startSessionLocked starts the 1 Hz session counter. Callers hold f.mu.
func (f *Flow) startSessionLocked(email string, startedAt time.Time) {
	ctx, cancel := context.WithCancel(f.ctx)
	f.cancelSession = cancel

	f.goroutine.Loop(ctx, tickInterval, func(_ context.Context) bool {
		return f.tickSession(email, startedAt)
	})
}

// tickSession refreshes the elapsed session time. The duration is recomputed
// from the wall clock on every tick rather than accumulated, so a delayed
// tick cannot drift the counter. It reports false when the state is no
// longer the same session.
func (f *Flow) tickSession(email string, startedAt time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := (*f.state.Load()).(entity.Session)
	if !ok || cur.Email != email || !cur.StartedAt.Equal(startedAt) {
		return false
	}

	cur.DurationSeconds = int(f.clock.Now().Sub(startedAt) / time.Second)
	f.replaceLocked(cur)

	return true
}
