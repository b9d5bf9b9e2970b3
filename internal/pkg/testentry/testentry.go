package testentry

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/lottopro/backend/internal/app"
	"github.com/lottopro/backend/internal/app/appcontext"
)

// Populate builds the whole application graph without listening on any port
// and fills targets from it. Environment overrides are applied before the
// configuration is parsed.
func Populate(t testing.TB, env map[string]string, targets ...any) {
	t.Helper()

	t.Setenv("LOTTOPRO_LOG_FILE", "")
	for k, v := range env {
		t.Setenv(k, v)
	}

	// for testing, logger is too annoying. therefore, we use a NopLogger here
	opts := app.Options(appcontext.Declare(appcontext.EnvCLI), fx.NopLogger, fx.Populate(targets...))
	opts = append(opts, fx.Invoke(func() {
		log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
	}))

	fxApp := fxtest.New(t, opts...).RequireStart()
	t.Cleanup(fxApp.RequireStop)
}
