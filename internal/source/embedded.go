package source

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/model"
)

type embeddedRow struct {
	round   int
	date    string
	numbers [model.PickCount]int
	bonus   int
}

// embeddedRows are the first ten official draws.
var embeddedRows = []embeddedRow{
	{10, "2003-02-08", [6]int{9, 25, 30, 33, 41, 44}, 6},
	{9, "2003-02-01", [6]int{2, 4, 16, 17, 36, 39}, 14},
	{8, "2003-01-25", [6]int{8, 19, 25, 34, 37, 39}, 9},
	{7, "2003-01-18", [6]int{2, 9, 16, 25, 26, 40}, 42},
	{6, "2003-01-11", [6]int{14, 15, 26, 27, 40, 42}, 34},
	{5, "2003-01-04", [6]int{16, 24, 29, 40, 41, 42}, 3},
	{4, "2002-12-28", [6]int{14, 27, 30, 31, 40, 42}, 2},
	{3, "2002-12-21", [6]int{11, 16, 19, 21, 27, 31}, 30},
	{2, "2002-12-14", [6]int{9, 13, 21, 25, 32, 42}, 2},
	{1, "2002-12-07", [6]int{10, 23, 29, 33, 37, 40}, 16},
}

// Embedded serves a small dataset compiled into the binary. It is the last
// stage of every chain and never fails.
type Embedded struct{}

func (Embedded) Name() string { return model.StageEmbedded }

func (Embedded) Attempt(context.Context, *Resource) ([]model.Draw, error) {
	return EmbeddedDraws(), nil
}

// EmbeddedDraws returns a fresh copy of the embedded dataset, newest first.
func EmbeddedDraws() []model.Draw {
	draws := make([]model.Draw, 0, len(embeddedRows))
	for _, r := range embeddedRows {
		d, err := model.NewDraw(r.round, model.DrawDateOf(r.date), r.numbers[:], r.bonus)
		if err != nil {
			log.Error().Err(err).Int("round", r.round).Msg("embedded draw is invalid")
			continue
		}
		draws = append(draws, d)
	}
	return draws
}
