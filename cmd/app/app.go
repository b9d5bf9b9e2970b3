package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	cliapp "github.com/lottopro/backend/cmd/app/cli"
	"github.com/lottopro/backend/cmd/app/cli/history"
	"github.com/lottopro/backend/cmd/app/cli/predict"
	"github.com/lottopro/backend/cmd/app/server"
	"github.com/lottopro/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "lottopro",
		Description: "Lottery combination prediction backend. Built with Go, fiber, bun and go.uber.org/fx. Draw history is loaded through a degrading fallback chain and never comes up empty.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			predict.Command(cliapp.Deps[predict.CommandDeps]()),
			history.Command(cliapp.Deps[history.CommandDeps]()),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
