// Package authflow is the passwordless sign-in module: an email leads to a
// demo one-time code, the code leads to a timed session.
package authflow

import (
	"context"
	"time"

	"github.com/passgate/passgate/internal/authflow/inbound"
	"github.com/passgate/passgate/internal/authflow/outbound/events"
	"github.com/passgate/passgate/internal/authflow/outbound/otpstore"
	"github.com/passgate/passgate/internal/authflow/usecase"
	"github.com/passgate/passgate/internal/pkg/clock"
	"github.com/passgate/passgate/internal/pkg/config"
	"github.com/passgate/passgate/internal/pkg/goroutine"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/jwt"
	"github.com/passgate/passgate/internal/pkg/router"
	"github.com/passgate/passgate/internal/pkg/uid"
	"github.com/passgate/passgate/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	EventIDs   uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store := otpstore.New(dep.Clock, otpstore.Config{
		CodeLength:  dep.Config.GetInt("otp.code_length"),
		TTL:         time.Duration(dep.Config.GetInt("otp.ttl_seconds")) * time.Second,
		MaxAttempts: dep.Config.GetInt("otp.max_attempts"),
	})
	sink := events.NewLogger(dep.EventIDs)

	uc := usecase.New(usecase.Dependency{
		Ctx:        dep.Ctx,
		Store:      store,
		Events:     sink,
		Validator:  dep.Validator,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
