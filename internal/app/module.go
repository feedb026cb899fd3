package app

import (
	"log/slog"
	"os"

	"github.com/lukrlier/notabene/internal/account"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(account.Dependency{
			DBConn:      a.dbConn,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Bcrypt:      a.bcrypt,
			Clock:       a.clock,
			Locale:      a.locale,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}
}
