package inbound

import (
	"testing"
	"time"

	"github.com/passgate/passgate/internal/authflow/entity"
)

func TestNewStateResponse_EmailInput(t *testing.T) {
	// Arrange
	st := entity.EmailInput{Email: "a@b", Err: "enter a valid email address"}

	// Act
	resp := newStateResponse(st)

	// Assert
	if resp.Phase != "EMAIL_INPUT" {
		t.Fatalf("expected EMAIL_INPUT phase, got %q", resp.Phase)
	}
	if resp.Email == nil || *resp.Email != "a@b" {
		t.Fatalf("expected email echoed, got %v", resp.Email)
	}
	if resp.Error == nil || *resp.Error == "" {
		t.Fatalf("expected error message, got %v", resp.Error)
	}
	if resp.RemainingSeconds != nil || resp.StartedAt != nil {
		t.Fatalf("expected only email form fields to be set")
	}
}

func TestNewStateResponse_EmptyEmailFormOmitsFields(t *testing.T) {
	// Act
	resp := newStateResponse(entity.EmailInput{})

	// Assert
	if resp.Email != nil || resp.Error != nil {
		t.Fatalf("expected empty fields omitted, got %+v", resp)
	}
}

func TestNewStateResponse_OtpEntry(t *testing.T) {
	// Arrange
	st := entity.OtpEntry{
		Email:             "x@y.com",
		Code:              "123456",
		RemainingSeconds:  0,
		RemainingAttempts: 2,
	}

	// Act
	resp := newStateResponse(st)

	// Assert
	if resp.Phase != "OTP_ENTRY" {
		t.Fatalf("expected OTP_ENTRY phase, got %q", resp.Phase)
	}
	if resp.Code == nil || *resp.Code != "123456" {
		t.Fatalf("expected code echoed, got %v", resp.Code)
	}
	if resp.RemainingSeconds == nil || *resp.RemainingSeconds != 0 {
		t.Fatalf("expected zero seconds to still be present, got %v", resp.RemainingSeconds)
	}
	if resp.RemainingAttempts == nil || *resp.RemainingAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %v", resp.RemainingAttempts)
	}
}

func TestNewStateResponse_Session(t *testing.T) {
	// Arrange
	startedAt := time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)
	st := entity.Session{Email: "x@y.com", StartedAt: startedAt, DurationSeconds: 42}

	// Act
	resp := newStateResponse(st)

	// Assert
	if resp.Phase != "SESSION" {
		t.Fatalf("expected SESSION phase, got %q", resp.Phase)
	}
	if resp.StartedAt == nil || !resp.StartedAt.Equal(startedAt) {
		t.Fatalf("expected started at echoed, got %v", resp.StartedAt)
	}
	if resp.DurationSeconds == nil || *resp.DurationSeconds != 42 {
		t.Fatalf("expected 42s elapsed, got %v", resp.DurationSeconds)
	}
	if resp.Code != nil {
		t.Fatalf("expected no code on session")
	}
}
