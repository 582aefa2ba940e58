package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/passgate/passgate/internal/authflow/entity"
	"github.com/passgate/passgate/internal/pkg/goerror"
)

// SubmitCodeInput carries the code form submission. The code is deliberately
// not format-checked here: a malformed code goes to the store like any other
// wrong code and consumes an attempt.
type SubmitCodeInput struct {
	Code string
}

// SubmitCodeOutput is the result of a code submission.
type SubmitCodeOutput struct {
	// State is the state after the transition.
	State entity.AuthState
	// SessionToken is a signed session token, set on success only.
	SessionToken string
}

// SubmitCode checks the submitted code against the store and applies the
// matching transition. Only a correct, unexpired code within the attempt
// budget reaches the session screen; every failure keeps the machine on the
// code entry screen with the error message set.
func (f *Flow) SubmitCode(ctx context.Context, in SubmitCodeInput) (*SubmitCodeOutput, error) {
	ctx, span := f.startSpan(ctx, "SubmitCode")
	defer span.End()

	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.currentOtpEntryLocked()
	if !ok {
		return nil, goerror.NewBusiness("no code entry in progress", goerror.CodeInvalidInput)
	}

	email := cur.Email
	result := f.store.Validate(email, in.Code)
	if f.validations != nil {
		f.validations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("result", result.String()),
		))
	}

	switch result {
	case entity.VerifySuccess:
		f.events.Succeeded(ctx, email)
		f.stopCountdownLocked()

		st := entity.Session{Email: email, StartedAt: f.clock.Now()}
		f.replaceLocked(st)
		f.startSessionLocked(email, st.StartedAt)

		token, err := f.jwt.Generate(email)
		if err != nil {
			// The session state stands; the token is a demo convenience.
			slog.ErrorContext(ctx, "failed to generate session token", "error", err)
		}

		return &SubmitCodeOutput{State: st, SessionToken: token}, nil

	case entity.VerifyExpired:
		f.events.Failed(ctx, email, result.Reason())

		st := cur
		st.Code = in.Code
		st.RemainingSeconds = 0
		st.Err = "code expired, request a new one"
		f.replaceLocked(st)

		return &SubmitCodeOutput{State: st}, nil

	case entity.VerifyInvalidCode:
		f.events.Failed(ctx, email, result.Reason())

		attempts := f.store.RemainingAttempts(email)
		st := cur
		st.Code = in.Code
		st.RemainingAttempts = attempts
		st.Err = fmt.Sprintf("invalid code, %d attempts remaining", attempts)
		f.replaceLocked(st)

		return &SubmitCodeOutput{State: st}, nil

	case entity.VerifyMaxAttempts:
		f.events.Failed(ctx, email, result.Reason())
		f.stopCountdownLocked()

		st := cur
		st.Code = in.Code
		st.RemainingSeconds = 0
		st.RemainingAttempts = 0
		st.Err = "too many attempts, request a new code"
		f.replaceLocked(st)

		return &SubmitCodeOutput{State: st}, nil

	case entity.VerifyNoCode:
		f.events.Failed(ctx, email, result.Reason())

		st := cur
		st.Code = in.Code
		st.Err = "no code found, request a new one"
		f.replaceLocked(st)

		return &SubmitCodeOutput{State: st}, nil

	default:
		return nil, goerror.NewServer(fmt.Errorf("unexpected verification result %d", result))
	}
}
