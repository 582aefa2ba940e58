package app

import (
	"log/slog"
	"os"

	"github.com/passgate/passgate/internal/authflow"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.authflow.enabled") {
		if err := authflow.New(authflow.Dependency{
			Ctx:        a.ctx,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			EventIDs:   a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module authflow", "error", err)
			os.Exit(1)
		}
	}
}
