package history

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/app/appconfig"
	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/repo"
	"github.com/lottopro/backend/internal/service"
	"github.com/lottopro/backend/internal/source"
)

var ErrEmbeddedOnly = errors.New("resource yielded no draws; refusing to sync the embedded fallback")

type CommandDeps struct {
	fx.In

	Config         *appconfig.Config
	HistoryService *service.History
	DrawRepo       *repo.Draw
	Fetcher        *source.Fetcher
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "print where the draw history was loaded from",
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return show(c, deps)
		},
		Subcommands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "load the history resource and upsert it into the postgres draws table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "resource",
						Usage: "history resource to load instead of the configured one",
					},
				},
				Action: func(c *cli.Context) error {
					deps, err := depsFn()
					if err != nil {
						return err
					}
					return syncDraws(c, deps, c.String("resource"))
				},
			},
		},
	}
}

func show(c *cli.Context, deps CommandDeps) error {
	snap := deps.HistoryService.Snapshot(c.Context)

	fmt.Fprintf(c.App.Writer, "source:       %s\n", snap.Provenance.Label())
	if snap.Provenance.Resource != "" {
		fmt.Fprintf(c.App.Writer, "resource:     %s\n", snap.Provenance.Resource)
	}
	fmt.Fprintf(c.App.Writer, "latest round: %d\n", snap.Latest.LatestRound)
	if snap.Latest.LatestDrawDate.Valid {
		fmt.Fprintf(c.App.Writer, "latest date:  %s\n", snap.Latest.LatestDrawDate.String)
	}
	return nil
}

func syncDraws(c *cli.Context, deps CommandDeps, resource string) error {
	if !deps.DrawRepo.Available() {
		return repo.ErrDatabaseDisabled
	}
	if resource == "" {
		resource = deps.Config.HistoryResource
	}

	// the database stage is left out: syncing the table from itself is pointless
	loader := source.NewChainLoader(resource, deps.Config.HistoryFetchTimeout, deps.Fetcher.Fetch, source.DefaultChain()...)
	result := loader.Load(c.Context)
	if result.Provenance.Stage == model.StageEmbedded {
		return errors.Wrap(ErrEmbeddedOnly, resource)
	}

	if err := deps.DrawRepo.EnsureTable(c.Context); err != nil {
		return errors.Wrap(err, "failed to create draws table")
	}
	affected, err := deps.DrawRepo.UpsertDraws(c.Context, result.Draws)
	if err != nil {
		return errors.Wrap(err, "failed to upsert draws")
	}

	log.Info().
		Str("evt.name", "history.synced").
		Str("source", result.Provenance.Label()).
		Int64("rows", affected).
		Msg("draw history synced into postgres")
	return nil
}
