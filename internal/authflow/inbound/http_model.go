package inbound

import (
	"time"

	"github.com/samber/lo"

	"github.com/passgate/passgate/internal/authflow/entity"
)

type SubmitEmailRequest struct {
	Email string `json:"email"`
}

type SubmitCodeRequest struct {
	Code string `json:"code"`
}

// StateResponse is the wire shape of the flow state. Only the fields of the
// active phase are present.
type StateResponse struct {
	Phase             string     `json:"phase"`
	Email             *string    `json:"email,omitempty"`
	Code              *string    `json:"code,omitempty"`
	RemainingSeconds  *int       `json:"remaining_seconds,omitempty"`
	RemainingAttempts *int       `json:"remaining_attempts,omitempty"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	DurationSeconds   *int       `json:"duration_seconds,omitempty"`
	Error             *string    `json:"error,omitempty"`
	SessionToken      string     `json:"session_token,omitempty"`
}

func newStateResponse(st entity.AuthState) StateResponse {
	switch s := st.(type) {
	case entity.EmailInput:
		return StateResponse{
			Phase: s.Phase().String(),
			Email: lo.EmptyableToPtr(s.Email),
			Error: lo.EmptyableToPtr(s.Err),
		}

	case entity.OtpEntry:
		return StateResponse{
			Phase:             s.Phase().String(),
			Email:             lo.ToPtr(s.Email),
			Code:              lo.ToPtr(s.Code),
			RemainingSeconds:  lo.ToPtr(s.RemainingSeconds),
			RemainingAttempts: lo.ToPtr(s.RemainingAttempts),
			Error:             lo.EmptyableToPtr(s.Err),
		}

	case entity.Session:
		return StateResponse{
			Phase:           s.Phase().String(),
			Email:           lo.ToPtr(s.Email),
			StartedAt:       lo.ToPtr(s.StartedAt),
			DurationSeconds: lo.ToPtr(s.DurationSeconds),
		}

	default:
		return StateResponse{Phase: entity.PhaseUnknown.String()}
	}
}
