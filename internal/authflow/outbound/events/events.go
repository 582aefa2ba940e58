// Package events reports authentication lifecycle events to the structured
// log, with identities masked. Each event carries a unique event ID so log
// lines can be referenced individually.
package events

import (
	"context"
	"log/slog"

	"github.com/passgate/passgate/internal/pkg/mask"
	"github.com/passgate/passgate/internal/pkg/uid"
)

// Logger emits authentication events via slog.
type Logger struct {
	ids uid.NumberID
}

// NewLogger creates an event logger using ids for event identifiers.
func NewLogger(ids uid.NumberID) *Logger {
	return &Logger{ids: ids}
}

// Generated reports that a one-time code was issued for the identity.
func (l *Logger) Generated(ctx context.Context, identity string) {
	slog.InfoContext(ctx, "otp generated",
		"event_id", l.ids.Generate(),
		"identity", mask.Email(identity),
	)
}

// Succeeded reports that the identity completed authentication.
func (l *Logger) Succeeded(ctx context.Context, identity string) {
	slog.InfoContext(ctx, "authentication succeeded",
		"event_id", l.ids.Generate(),
		"identity", mask.Email(identity),
	)
}

// Failed reports a failed code verification with its reason.
func (l *Logger) Failed(ctx context.Context, identity, reason string) {
	slog.WarnContext(ctx, "authentication failed",
		"event_id", l.ids.Generate(),
		"identity", mask.Email(identity),
		"reason", reason,
	)
}

// LoggedOut reports that the identity's session or pending code was abandoned.
func (l *Logger) LoggedOut(ctx context.Context, identity string) {
	slog.InfoContext(ctx, "logged out",
		"event_id", l.ids.Generate(),
		"identity", mask.Email(identity),
	)
}
