package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/passgate/passgate/internal/authflow/entity"
)

// SubmitEmailInput carries the email form submission.
type SubmitEmailInput struct {
	Email string `validate:"required,loginemail"`
}

// SubmitEmail validates the email and, when it passes, issues a one-time
// code and moves to the code entry screen. An invalid email stays on the
// email form with the error message set; that is a state outcome, not an
// operational failure.
func (f *Flow) SubmitEmail(ctx context.Context, in SubmitEmailInput) (entity.AuthState, error) {
	ctx, span := f.startSpan(ctx, "SubmitEmail")
	defer span.End()

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.validator.Validate(in); err != nil {
		st := entity.EmailInput{Email: in.Email, Err: "enter a valid email address"}
		f.replaceLocked(st)
		return st, nil
	}

	return f.beginOTPLocked(ctx, strings.TrimSpace(in.Email)), nil
}

// beginOTPLocked issues a fresh code for email and moves to OtpEntry with a
// restarted countdown. Any previous timers are cancelled first, so a resend
// never leaves two countdowns ticking. Callers hold f.mu.
func (f *Flow) beginOTPLocked(ctx context.Context, email string) entity.AuthState {
	f.stopTimersLocked()

	code := f.store.Generate(email)
	f.events.Generated(ctx, email)

	st := entity.OtpEntry{
		Email:             email,
		Code:              code,
		RemainingSeconds:  f.store.RemainingTime(email),
		RemainingAttempts: f.store.RemainingAttempts(email),
	}
	f.replaceLocked(st)
	f.startCountdownLocked(email, st.RemainingSeconds)

	slog.InfoContext(ctx, "otp issued, countdown started", "seconds", st.RemainingSeconds)

	return st
}
