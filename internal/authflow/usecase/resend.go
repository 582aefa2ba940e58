package usecase

import (
	"context"

	"github.com/passgate/passgate/internal/authflow/entity"
	"github.com/passgate/passgate/internal/pkg/goerror"
)

// Resend reissues a code for the identity currently on the code entry
// screen. The previous code stops working, the attempt budget resets, and
// the countdown restarts from the full window.
func (f *Flow) Resend(ctx context.Context) (entity.AuthState, error) {
	ctx, span := f.startSpan(ctx, "Resend")
	defer span.End()

	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.currentOtpEntryLocked()
	if !ok {
		return nil, goerror.NewBusiness("no code entry in progress", goerror.CodeInvalidInput)
	}

	return f.beginOTPLocked(ctx, cur.Email), nil
}
