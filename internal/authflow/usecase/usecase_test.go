package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/passgate/passgate/internal/authflow/entity"
	"github.com/passgate/passgate/internal/authflow/outbound/otpstore"
	"github.com/passgate/passgate/internal/pkg/goroutine"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/jwt"
	"github.com/passgate/passgate/internal/pkg/uid"
	"github.com/passgate/passgate/internal/pkg/validator"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type sinkRecorder struct {
	generated []string
	succeeded []string
	failed    []string
	loggedOut []string
}

func (r *sinkRecorder) Generated(_ context.Context, identity string) {
	r.generated = append(r.generated, identity)
}

func (r *sinkRecorder) Succeeded(_ context.Context, identity string) {
	r.succeeded = append(r.succeeded, identity)
}

func (r *sinkRecorder) Failed(_ context.Context, _ string, reason string) {
	r.failed = append(r.failed, reason)
}

func (r *sinkRecorder) LoggedOut(_ context.Context, identity string) {
	r.loggedOut = append(r.loggedOut, identity)
}

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// newTestFlow builds a Flow whose timer context is already cancelled, so the
// background loops never tick and the tick functions can be driven by hand.
func newTestFlow(t *testing.T) (*Flow, *sinkRecorder, *fakeClock, *otpstore.Store) {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)}
	store := otpstore.New(clk, otpstore.Config{})
	sink := &sinkRecorder{}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(testSecret),
		Issuer:    "passgate-test",
		Audiences: []string{"passgate-test"},
		TTL:       time.Minute,
		Clock:     clk,
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("failed to build jwt: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Dependency{
		Ctx:        ctx,
		Store:      store,
		Events:     sink,
		Validator:  v,
		Clock:      clk,
		JWT:        tokens,
		Instrument: instrument.NewNoop(),
		Goroutine:  goroutine.NewManager(10),
	})

	return f, sink, clk, store
}

func submitEmail(t *testing.T, f *Flow, email string) entity.OtpEntry {
	t.Helper()

	st, err := f.SubmitEmail(context.Background(), SubmitEmailInput{Email: email})
	if err != nil {
		t.Fatalf("submit email %q: %v", email, err)
	}

	otp, ok := st.(entity.OtpEntry)
	if !ok {
		t.Fatalf("expected otp entry state for %q, got %T", email, st)
	}

	return otp
}

func TestSubmitEmail_InvalidStaysOnEmailForm(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "blank", email: ""},
		{name: "no at sign", email: "abc"},
		{name: "no dot after at", email: "a@b"},
		{name: "dot only before at", email: "a.b@"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f, sink, _, _ := newTestFlow(t)

			// Act
			st, err := f.SubmitEmail(context.Background(), SubmitEmailInput{Email: tc.email})

			// Assert
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			form, ok := st.(entity.EmailInput)
			if !ok {
				t.Fatalf("expected email input state, got %T", st)
			}
			if form.Err == "" {
				t.Fatalf("expected validation message on state")
			}
			if form.Email != tc.email {
				t.Fatalf("expected email %q preserved, got %q", tc.email, form.Email)
			}
			if len(sink.generated) != 0 {
				t.Fatalf("expected no code issued for invalid email")
			}
		})
	}
}

func TestSubmitEmail_ValidStartsCodeEntry(t *testing.T) {
	// Arrange
	f, sink, _, _ := newTestFlow(t)

	// Act
	otp := submitEmail(t, f, "a@b.co")

	// Assert
	if otp.Email != "a@b.co" {
		t.Fatalf("expected identity a@b.co, got %q", otp.Email)
	}
	if len(otp.Code) != 6 {
		t.Fatalf("expected 6 digit code echoed, got %q", otp.Code)
	}
	if otp.RemainingSeconds != 60 {
		t.Fatalf("expected 60s countdown, got %d", otp.RemainingSeconds)
	}
	if otp.RemainingAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", otp.RemainingAttempts)
	}
	if len(sink.generated) != 1 || sink.generated[0] != "a@b.co" {
		t.Fatalf("expected generated event for a@b.co, got %v", sink.generated)
	}
	if f.Snapshot().Phase() != entity.PhaseOtpEntry {
		t.Fatalf("expected snapshot in otp entry phase")
	}
}

func TestSubmitCode_Success(t *testing.T) {
	// Arrange
	f, sink, clk, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")

	// Act
	out, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session, ok := out.State.(entity.Session)
	if !ok {
		t.Fatalf("expected session state, got %T", out.State)
	}
	if session.Email != "x@y.com" {
		t.Fatalf("expected identity x@y.com, got %q", session.Email)
	}
	if !session.StartedAt.Equal(clk.now) {
		t.Fatalf("expected session started at %v, got %v", clk.now, session.StartedAt)
	}
	if session.DurationSeconds != 0 {
		t.Fatalf("expected fresh session, got %d seconds", session.DurationSeconds)
	}
	if out.SessionToken == "" {
		t.Fatalf("expected a session token on success")
	}
	if len(sink.succeeded) != 1 {
		t.Fatalf("expected success event, got %v", sink.succeeded)
	}
}

func TestSubmitCode_WrongThenRight(t *testing.T) {
	// Arrange
	f, sink, _, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	wrong := "000000"
	if wrong == otp.Code {
		wrong = "111111"
	}

	// Act
	out, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: wrong})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := out.State.(entity.OtpEntry)
	if !ok {
		t.Fatalf("expected otp entry state, got %T", out.State)
	}
	if entry.RemainingAttempts != 2 {
		t.Fatalf("expected 2 attempts left, got %d", entry.RemainingAttempts)
	}
	if !strings.Contains(entry.Err, "2") {
		t.Fatalf("expected error to mention remaining attempts, got %q", entry.Err)
	}
	if len(sink.failed) != 1 || sink.failed[0] != "invalid code" {
		t.Fatalf("expected invalid code failure event, got %v", sink.failed)
	}

	// The correct code still works after a failed attempt.
	out, err = f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out.State.(entity.Session); !ok {
		t.Fatalf("expected session after correct code, got %T", out.State)
	}
}

func TestSubmitCode_MaxAttempts(t *testing.T) {
	// Arrange
	f, sink, _, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	wrong := "000000"
	if wrong == otp.Code {
		wrong = "111111"
	}

	// Act
	var out *SubmitCodeOutput
	var err error
	for range 3 {
		out, err = f.SubmitCode(context.Background(), SubmitCodeInput{Code: wrong})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Assert
	entry, ok := out.State.(entity.OtpEntry)
	if !ok {
		t.Fatalf("expected otp entry state, got %T", out.State)
	}
	if entry.RemainingAttempts != 0 || entry.RemainingSeconds != 0 {
		t.Fatalf("expected exhausted entry, got attempts=%d seconds=%d", entry.RemainingAttempts, entry.RemainingSeconds)
	}
	if sink.failed[len(sink.failed)-1] != "max attempts exceeded" {
		t.Fatalf("expected max attempts failure event, got %v", sink.failed)
	}

	// Even the correct code is rejected once the budget is spent.
	out, err = f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok = out.State.(entity.OtpEntry)
	if !ok || entry.Err == "" {
		t.Fatalf("expected sticky max attempts state, got %#v", out.State)
	}
}

func TestSubmitCode_Expired(t *testing.T) {
	// Arrange
	f, sink, clk, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	clk.now = clk.now.Add(61 * time.Second)

	// Act
	out, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := out.State.(entity.OtpEntry)
	if !ok {
		t.Fatalf("expected otp entry state, got %T", out.State)
	}
	if entry.RemainingSeconds != 0 {
		t.Fatalf("expected countdown forced to 0, got %d", entry.RemainingSeconds)
	}
	if entry.Err == "" {
		t.Fatalf("expected expiry message on state")
	}
	if len(sink.failed) != 1 || sink.failed[0] != "code expired" {
		t.Fatalf("expected expired failure event, got %v", sink.failed)
	}
}

func TestSubmitCode_NoCode(t *testing.T) {
	// Arrange
	f, sink, _, store := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	store.Clear("x@y.com")

	// Act
	out, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := out.State.(entity.OtpEntry)
	if !ok {
		t.Fatalf("expected otp entry state, got %T", out.State)
	}
	if entry.Err == "" {
		t.Fatalf("expected no code message on state")
	}
	if len(sink.failed) != 1 || sink.failed[0] != "no code found" {
		t.Fatalf("expected no code failure event, got %v", sink.failed)
	}
}

func TestSubmitCode_WithoutCodeEntryFails(t *testing.T) {
	// Arrange
	f, _, _, _ := newTestFlow(t)

	// Act
	_, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: "123456"})

	// Assert
	if err == nil {
		t.Fatalf("expected error when no code entry is in progress")
	}
}

func TestResend_ResetsCodeEntry(t *testing.T) {
	// Arrange
	f, sink, _, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	wrong := "000000"
	if wrong == otp.Code {
		wrong = "111111"
	}
	if _, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: wrong}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	st, err := f.Resend(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := st.(entity.OtpEntry)
	if !ok {
		t.Fatalf("expected otp entry state, got %T", st)
	}
	if entry.RemainingAttempts != 3 || entry.RemainingSeconds != 60 {
		t.Fatalf("expected fresh entry, got attempts=%d seconds=%d", entry.RemainingAttempts, entry.RemainingSeconds)
	}
	if entry.Err != "" {
		t.Fatalf("expected error cleared after resend, got %q", entry.Err)
	}
	if len(sink.generated) != 2 {
		t.Fatalf("expected a second generated event, got %v", sink.generated)
	}
}

func TestResend_WithoutCodeEntryFails(t *testing.T) {
	// Arrange
	f, _, _, _ := newTestFlow(t)

	// Act
	_, err := f.Resend(context.Background())

	// Assert
	if err == nil {
		t.Fatalf("expected error when no code entry is in progress")
	}
}

func TestLogout_FromSession(t *testing.T) {
	// Arrange
	f, sink, _, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	if _, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	st, err := f.Logout(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(entity.EmailInput); !ok {
		t.Fatalf("expected email input state, got %T", st)
	}
	if len(sink.loggedOut) != 1 || sink.loggedOut[0] != "x@y.com" {
		t.Fatalf("expected logged out event, got %v", sink.loggedOut)
	}
}

func TestBack_ClearsPendingCode(t *testing.T) {
	// Arrange
	f, sink, _, store := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")

	// Act
	st, err := f.Back(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(entity.EmailInput); !ok {
		t.Fatalf("expected email input state, got %T", st)
	}
	if len(sink.loggedOut) != 1 {
		t.Fatalf("expected logged out event on back, got %v", sink.loggedOut)
	}
	if got := store.Validate("x@y.com", otp.Code); got != entity.VerifyNoCode {
		t.Fatalf("expected stored code cleared, got %v", got)
	}
}

func TestTickCountdown(t *testing.T) {
	// Arrange
	f, _, _, _ := newTestFlow(t)
	submitEmail(t, f, "x@y.com")

	// Act & Assert
	if !f.tickCountdown("x@y.com", 59) {
		t.Fatalf("expected countdown to keep ticking at 59")
	}
	entry := f.Snapshot().(entity.OtpEntry)
	if entry.RemainingSeconds != 59 {
		t.Fatalf("expected 59s published, got %d", entry.RemainingSeconds)
	}

	if f.tickCountdown("x@y.com", 0) {
		t.Fatalf("expected countdown to stop at 0")
	}
	entry = f.Snapshot().(entity.OtpEntry)
	if entry.RemainingSeconds != 0 {
		t.Fatalf("expected 0s published, got %d", entry.RemainingSeconds)
	}
}

func TestTickCountdown_StaleTimerWritesNothing(t *testing.T) {
	// Arrange
	f, _, _, _ := newTestFlow(t)
	submitEmail(t, f, "x@y.com")

	// Act
	alive := f.tickCountdown("other@y.com", 10)

	// Assert
	if alive {
		t.Fatalf("expected stale countdown to stop")
	}
	entry := f.Snapshot().(entity.OtpEntry)
	if entry.RemainingSeconds != 60 {
		t.Fatalf("expected state untouched by stale timer, got %d", entry.RemainingSeconds)
	}
}

func TestTickSession(t *testing.T) {
	// Arrange
	f, _, clk, _ := newTestFlow(t)
	otp := submitEmail(t, f, "x@y.com")
	out, err := f.SubmitCode(context.Background(), SubmitCodeInput{Code: otp.Code})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	startedAt := out.State.(entity.Session).StartedAt

	// Act
	clk.now = clk.now.Add(5 * time.Second)
	alive := f.tickSession("x@y.com", startedAt)

	// Assert
	if !alive {
		t.Fatalf("expected session timer to keep ticking")
	}
	session := f.Snapshot().(entity.Session)
	if session.DurationSeconds != 5 {
		t.Fatalf("expected 5s elapsed, got %d", session.DurationSeconds)
	}

	// After logout the timer is stale and must stop without writing.
	if _, err := f.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.tickSession("x@y.com", startedAt) {
		t.Fatalf("expected stale session timer to stop")
	}
	if _, ok := f.Snapshot().(entity.EmailInput); !ok {
		t.Fatalf("expected email input state after logout")
	}
}
