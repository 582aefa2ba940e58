package inbound

import (
	"context"

	"github.com/passgate/passgate/internal/authflow/entity"
	"github.com/passgate/passgate/internal/authflow/usecase"
	"github.com/passgate/passgate/internal/pkg/router"
)

type uc interface {
	SubmitEmail(ctx context.Context, in usecase.SubmitEmailInput) (entity.AuthState, error)
	SubmitCode(ctx context.Context, in usecase.SubmitCodeInput) (*usecase.SubmitCodeOutput, error)
	Resend(ctx context.Context) (entity.AuthState, error)
	Back(ctx context.Context) (entity.AuthState, error)
	Logout(ctx context.Context) (entity.AuthState, error)
	Snapshot() entity.AuthState
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Passwordless sign-in flow
	r.POST("/api/v1/auth/email", end.SubmitEmail)
	r.POST("/api/v1/auth/otp", end.SubmitCode)
	r.POST("/api/v1/auth/resend", end.Resend)
	r.POST("/api/v1/auth/back", end.Back)
	r.POST("/api/v1/auth/logout", end.Logout) // need authenticated

	// Flow observation
	r.GET("/api/v1/auth/state", end.State)
}
