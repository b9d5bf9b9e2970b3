package source

import (
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/repo"
)

func Module() fx.Option {
	return fx.Module("source", fx.Provide(
		NewFetcher,
		NewLoader,
		func(r *repo.Draw) DrawReader { return r },
	))
}
