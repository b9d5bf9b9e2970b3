package predict

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	PredictionService *service.Prediction
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "print one prediction result as JSON",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  "pin",
				Usage: "number every combination must contain; repeatable",
			},
		},
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(c, deps, model.PinnedOf(c.IntSlice("pin")...))
		},
	}
}

func run(c *cli.Context, deps CommandDeps, pinned model.Pinned) error {
	result, err := deps.PredictionService.Predict(c.Context, pinned)
	if err != nil {
		result = service.UnavailableResult(pinned)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}
	return err
}
