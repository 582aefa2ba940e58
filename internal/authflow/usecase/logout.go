package usecase

import (
	"context"

	"github.com/passgate/passgate/internal/authflow/entity"
)

// Logout abandons the current identity: its stored code is cleared, both
// timers stop, and the machine returns to an empty email form. Logging out
// from the email form is a no-op transition.
func (f *Flow) Logout(ctx context.Context) (entity.AuthState, error) {
	ctx, span := f.startSpan(ctx, "Logout")
	defer span.End()

	f.mu.Lock()
	defer f.mu.Unlock()

	var identity string
	switch st := (*f.state.Load()).(type) {
	case entity.OtpEntry:
		identity = st.Email
	case entity.Session:
		identity = st.Email
	}

	if identity != "" {
		f.events.LoggedOut(ctx, identity)
		f.store.Clear(identity)
	}

	f.stopTimersLocked()

	st := entity.EmailInput{}
	f.replaceLocked(st)

	return st, nil
}

// Back returns from the code entry screen to the email form. It is the same
// transition as Logout bound to a second entry point: the pending code is
// cleared and the countdown stops.
func (f *Flow) Back(ctx context.Context) (entity.AuthState, error) {
	return f.Logout(ctx)
}
