package cli

import (
	"context"

	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/app"
	"github.com/lottopro/backend/internal/app/appcontext"
)

func Start(module fx.Option) error {
	return app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background())
}

// Deps returns a lazy constructor of a command's fx.In dependency struct. The
// application graph is only built once the command actually runs.
func Deps[T any]() func() (T, error) {
	return func() (T, error) {
		var deps T
		err := Start(fx.Populate(&deps))
		return deps, err
	}
}
