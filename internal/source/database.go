package source

import (
	"context"

	"github.com/lottopro/backend/internal/model"
)

// DrawReader is the part of the draw table repository the loader needs.
type DrawReader interface {
	Available() bool
	GetDraws(ctx context.Context) ([]model.Draw, error)
}

// Database reads draws from the SQL draw table.
type Database struct {
	Repo DrawReader
}

func (Database) Name() string { return model.StageDatabase }

func (s Database) Attempt(ctx context.Context, _ *Resource) ([]model.Draw, error) {
	if s.Repo == nil || !s.Repo.Available() {
		return nil, ErrNoRecords
	}
	draws, err := s.Repo.GetDraws(ctx)
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return nil, ErrNoRecords
	}
	return draws, nil
}
