package entity

// Phase identifies which screen of the login flow is active.
type Phase int16

const (
	// PhaseUnknown is the zero value and never stored.
	PhaseUnknown Phase = iota
	// PhaseEmailInput is the initial email form.
	PhaseEmailInput
	// PhaseOtpEntry is the one-time code form.
	PhaseOtpEntry
	// PhaseSession is the authenticated session screen.
	PhaseSession
)

// String returns the wire representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseEmailInput:
		return "EMAIL_INPUT"
	case PhaseOtpEntry:
		return "OTP_ENTRY"
	case PhaseSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// VerifyResult is the outcome of checking a submitted one-time code.
type VerifyResult int16

const (
	// VerifyUnknown is the zero value and never returned.
	VerifyUnknown VerifyResult = iota
	// VerifySuccess means the code matched and the record was consumed.
	VerifySuccess
	// VerifyExpired means the code's validity window has passed.
	VerifyExpired
	// VerifyInvalidCode means the code did not match.
	VerifyInvalidCode
	// VerifyMaxAttempts means the attempt budget is exhausted.
	VerifyMaxAttempts
	// VerifyNoCode means no code was ever issued for the identity.
	VerifyNoCode
)

// String returns the string representation of the verification result.
func (v VerifyResult) String() string {
	switch v {
	case VerifySuccess:
		return "SUCCESS"
	case VerifyExpired:
		return "EXPIRED"
	case VerifyInvalidCode:
		return "INVALID_CODE"
	case VerifyMaxAttempts:
		return "MAX_ATTEMPTS_EXCEEDED"
	case VerifyNoCode:
		return "NO_CODE_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Reason returns a human-readable failure reason for event reporting.
// It is empty for success.
func (v VerifyResult) Reason() string {
	switch v {
	case VerifyExpired:
		return "code expired"
	case VerifyInvalidCode:
		return "invalid code"
	case VerifyMaxAttempts:
		return "max attempts exceeded"
	case VerifyNoCode:
		return "no code found"
	default:
		return ""
	}
}
