package entity

import "time"

// AuthState is the whole-flow state at a point in time. Exactly one of the
// concrete types below is active; transitions replace the value as a whole
// rather than mutating it in place.
type AuthState interface {
	// Phase identifies the concrete state type.
	Phase() Phase
}

// EmailInput is the initial screen: the user is typing an email address.
type EmailInput struct {
	// Email is the current content of the email field.
	Email string
	// Loading reports whether a submission is in flight.
	Loading bool
	// Err is the validation message shown under the field, if any.
	Err string
}

// Phase implements AuthState.
func (EmailInput) Phase() Phase { return PhaseEmailInput }

// OtpEntry is the code screen: a code has been issued and the user must
// submit it before the countdown reaches zero.
type OtpEntry struct {
	// Email is the identity the code was issued for.
	Email string
	// Code is the current content of the code field.
	Code string
	// RemainingSeconds counts down from the code validity window.
	RemainingSeconds int
	// RemainingAttempts is how many failed submissions are still allowed.
	RemainingAttempts int
	// Loading reports whether a submission is in flight.
	Loading bool
	// Err is the verification failure message, if any.
	Err string
}

// Phase implements AuthState.
func (OtpEntry) Phase() Phase { return PhaseOtpEntry }

// Session is the authenticated screen with an elapsed-time counter.
type Session struct {
	// Email is the authenticated identity.
	Email string
	// StartedAt is when the session began.
	StartedAt time.Time
	// DurationSeconds is the elapsed session time, refreshed every second.
	DurationSeconds int
}

// Phase implements AuthState.
func (Session) Phase() Phase { return PhaseSession }
