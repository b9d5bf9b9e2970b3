package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/repo/selector"
)

var ErrDatabaseDisabled = errors.New("draw table is not configured")

// Draw reads and writes the draws table. It is usable without a database,
// in which case Available reports false and every query fails.
type Draw struct {
	db  *bun.DB
	sel selector.S[model.DrawRow]
}

func NewDraw(db *bun.DB) *Draw {
	return &Draw{db: db, sel: selector.New[model.DrawRow](db)}
}

func (r *Draw) Available() bool {
	return r != nil && r.db != nil
}

// GetDraws returns every valid draw, newest first. Invalid rows are skipped.
func (r *Draw) GetDraws(ctx context.Context) ([]model.Draw, error) {
	if !r.Available() {
		return nil, ErrDatabaseDisabled
	}

	rows, err := r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("round DESC")
	})
	if err != nil {
		return nil, err
	}

	draws := make([]model.Draw, 0, len(rows))
	for _, row := range rows {
		d, err := row.Draw()
		if err != nil {
			log.Trace().Err(err).Int("round", row.Round).Msg("skipping invalid draw row")
			continue
		}
		draws = append(draws, d)
	}
	return draws, nil
}

// EnsureTable creates the draws table when it does not exist yet.
func (r *Draw) EnsureTable(ctx context.Context) error {
	if !r.Available() {
		return ErrDatabaseDisabled
	}
	_, err := r.db.NewCreateTable().
		Model((*model.DrawRow)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// UpsertDraws writes draws, overwriting rows with the same round.
func (r *Draw) UpsertDraws(ctx context.Context, draws []model.Draw) (int64, error) {
	if !r.Available() {
		return 0, ErrDatabaseDisabled
	}
	if len(draws) == 0 {
		return 0, nil
	}

	rows := make([]*model.DrawRow, len(draws))
	for i, d := range draws {
		rows[i] = model.NewDrawRow(d)
	}

	res, err := r.db.NewInsert().
		Model(&rows).
		On("CONFLICT (round) DO UPDATE").
		Set("draw_date = EXCLUDED.draw_date").
		Set("num1 = EXCLUDED.num1").
		Set("num2 = EXCLUDED.num2").
		Set("num3 = EXCLUDED.num3").
		Set("num4 = EXCLUDED.num4").
		Set("num5 = EXCLUDED.num5").
		Set("num6 = EXCLUDED.num6").
		Set("bonus = EXCLUDED.bonus").
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "upsert draws")
	}
	return res.RowsAffected()
}

func (r *Draw) Ping(ctx context.Context) error {
	if !r.Available() {
		return nil
	}
	return r.db.PingContext(ctx)
}
