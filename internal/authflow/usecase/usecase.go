package usecase

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"

	"github.com/passgate/passgate/internal/authflow/entity"
	"github.com/passgate/passgate/internal/pkg/clock"
	"github.com/passgate/passgate/internal/pkg/goroutine"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/jwt"
	"github.com/passgate/passgate/internal/pkg/validator"
)

type otpStore interface {
	Generate(identity string) string
	Validate(identity, code string) entity.VerifyResult
	RemainingTime(identity string) int
	RemainingAttempts(identity string) int
	Clear(identity string)
}

type eventSink interface {
	Generated(ctx context.Context, identity string)
	Succeeded(ctx context.Context, identity string)
	Failed(ctx context.Context, identity, reason string)
	LoggedOut(ctx context.Context, identity string)
}

// Flow is the authentication state machine. One instance serves the whole
// process; the state moves through EmailInput, OtpEntry and Session as whole
// values. Reads go through the atomic snapshot pointer without locking,
// transitions are serialized by the mutex.
type Flow struct {
	store     otpStore
	events    eventSink
	validator validator.Validator
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
	goroutine *goroutine.Manager

	ctx   context.Context
	state *atomic.Pointer[entity.AuthState]

	mu              sync.Mutex
	cancelCountdown context.CancelFunc
	cancelSession   context.CancelFunc

	validations metric.Int64Counter
}

// Dependency defines the inputs for building a Flow.
type Dependency struct {
	// Ctx is the base context for timer goroutines; cancelling it stops them.
	Ctx context.Context
	// Store holds issued one-time codes.
	Store otpStore
	// Events receives authentication lifecycle events.
	Events eventSink
	// Validator validates operation inputs.
	Validator validator.Validator
	// Clock provides the current time source.
	Clock clock.Clocker
	// JWT signs demo session tokens.
	JWT jwt.JWT
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// Goroutine runs the countdown and session timers.
	Goroutine *goroutine.Manager
}

// New creates a Flow starting at an empty email form.
func New(dep Dependency) *Flow {
	validations, err := dep.Instrument.Meter("authflow.usecase").Int64Counter(
		"authflow.otp.validations",
		metric.WithDescription("Number of OTP validation attempts"),
	)
	if err != nil {
		slog.Error("failed to create otp validation counter", "error", err)
	}

	var initial entity.AuthState = entity.EmailInput{}

	return &Flow{
		store:       dep.Store,
		events:      dep.Events,
		validator:   dep.Validator,
		clock:       dep.Clock,
		jwt:         dep.JWT,
		ins:         dep.Instrument,
		goroutine:   dep.Goroutine,
		ctx:         dep.Ctx,
		state:       atomic.NewPointer(&initial),
		validations: validations,
	}
}

func (f *Flow) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return f.ins.Tracer("authflow.usecase").Start(ctx, name)
}

// Snapshot returns the current state. The returned value is a copy; callers
// can read it freely while the machine keeps moving.
func (f *Flow) Snapshot() entity.AuthState {
	return *f.state.Load()
}

// replaceLocked publishes st as the new current state. Callers hold f.mu.
func (f *Flow) replaceLocked(st entity.AuthState) {
	f.state.Store(&st)
}

func (f *Flow) currentOtpEntryLocked() (entity.OtpEntry, bool) {
	st, ok := (*f.state.Load()).(entity.OtpEntry)
	return st, ok
}
