package otpstore

import (
	"testing"
	"time"

	"github.com/passgate/passgate/internal/authflow/entity"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)}

	return New(clk, Config{}), clk
}

// wrongCode returns a six digit code guaranteed to differ from code.
func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestGenerate_CodeShape(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)

	// Act
	code := s.Generate("x@y.com")

	// Assert
	if len(code) != 6 {
		t.Fatalf("expected 6 digit code, got %q", code)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
}

func TestGenerate_ReplacesPreviousCode(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)
	first := s.Generate("x@y.com")

	// Act
	second := s.Generate("x@y.com")
	for second == first {
		second = s.Generate("x@y.com")
	}

	// Assert
	if got := s.Validate("x@y.com", first); got != entity.VerifyInvalidCode {
		t.Fatalf("expected old code to be invalid, got %v", got)
	}
	if got := s.Validate("x@y.com", second); got != entity.VerifySuccess {
		t.Fatalf("expected new code to succeed, got %v", got)
	}
}

func TestValidate_SuccessConsumesRecord(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)
	code := s.Generate("x@y.com")

	// Act
	first := s.Validate("x@y.com", code)
	second := s.Validate("x@y.com", code)

	// Assert
	if first != entity.VerifySuccess {
		t.Fatalf("expected success, got %v", first)
	}
	if second != entity.VerifyNoCode {
		t.Fatalf("expected replay to find no code, got %v", second)
	}
}

func TestValidate_NoCodeForUnknownIdentity(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)

	// Act & Assert
	if got := s.Validate("nobody@y.com", "123456"); got != entity.VerifyNoCode {
		t.Fatalf("expected no code, got %v", got)
	}
}

func TestValidate_AttemptExhaustion(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)
	code := s.Generate("x@y.com")
	wrong := wrongCode(code)

	// Act & Assert
	if got := s.Validate("x@y.com", wrong); got != entity.VerifyInvalidCode {
		t.Fatalf("attempt 1: expected invalid code, got %v", got)
	}
	if got := s.RemainingAttempts("x@y.com"); got != 2 {
		t.Fatalf("attempt 1: expected 2 remaining, got %d", got)
	}

	if got := s.Validate("x@y.com", wrong); got != entity.VerifyInvalidCode {
		t.Fatalf("attempt 2: expected invalid code, got %v", got)
	}

	if got := s.Validate("x@y.com", wrong); got != entity.VerifyMaxAttempts {
		t.Fatalf("attempt 3: expected max attempts, got %v", got)
	}

	// The budget check runs before the code comparison, so even the correct
	// code is rejected once exhausted.
	if got := s.Validate("x@y.com", code); got != entity.VerifyMaxAttempts {
		t.Fatalf("after exhaustion: expected max attempts, got %v", got)
	}
	if got := s.RemainingAttempts("x@y.com"); got != 0 {
		t.Fatalf("after exhaustion: expected 0 remaining, got %d", got)
	}
}

func TestValidate_ExpiryBeatsEquality(t *testing.T) {
	// Arrange
	s, clk := newTestStore(t)
	code := s.Generate("x@y.com")

	// Act
	clk.now = clk.now.Add(61 * time.Second)

	// Assert
	if got := s.Validate("x@y.com", code); got != entity.VerifyExpired {
		t.Fatalf("expected expired, got %v", got)
	}
}

func TestRemainingTime(t *testing.T) {
	// Arrange
	s, clk := newTestStore(t)
	s.Generate("x@y.com")

	// Act & Assert
	if got := s.RemainingTime("x@y.com"); got != 60 {
		t.Fatalf("expected 60s remaining, got %d", got)
	}

	clk.now = clk.now.Add(30*time.Second + 500*time.Millisecond)
	if got := s.RemainingTime("x@y.com"); got != 29 {
		t.Fatalf("expected floor of 29s remaining, got %d", got)
	}

	clk.now = clk.now.Add(time.Hour)
	if got := s.RemainingTime("x@y.com"); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}

	if got := s.RemainingTime("nobody@y.com"); got != 0 {
		t.Fatalf("expected 0 for unknown identity, got %d", got)
	}
}

func TestRemainingAttempts_UnknownIdentity(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)

	// Act & Assert
	if got := s.RemainingAttempts("nobody@y.com"); got != 0 {
		t.Fatalf("expected 0 for unknown identity, got %d", got)
	}
}

func TestClear(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)
	code := s.Generate("x@y.com")

	// Act
	s.Clear("x@y.com")
	s.Clear("x@y.com") // clearing an absent identity is a no-op

	// Assert
	if got := s.Validate("x@y.com", code); got != entity.VerifyNoCode {
		t.Fatalf("expected no code after clear, got %v", got)
	}
}

func TestIdentitiesAreIndependent(t *testing.T) {
	// Arrange
	s, _ := newTestStore(t)
	codeA := s.Generate("a@y.com")
	codeB := s.Generate("b@y.com")
	wrong := "000000"
	for wrong == codeA || wrong == codeB {
		wrong = string([]byte{wrong[0] + 1, wrong[1] + 1, wrong[2] + 1, wrong[3] + 1, wrong[4] + 1, wrong[5] + 1})
	}

	// Act
	s.Validate("a@y.com", wrong)
	s.Validate("a@y.com", wrong)
	s.Validate("a@y.com", wrong)

	// Assert
	if got := s.Validate("b@y.com", codeB); got != entity.VerifySuccess {
		t.Fatalf("expected b to be unaffected by a's attempts, got %v", got)
	}
}
