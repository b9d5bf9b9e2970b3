package source

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lottopro/backend/internal/model"
)

// ErrNoRecords is returned by a stage that read its input but found no valid draw.
var ErrNoRecords = errors.New("no valid draw records")

// Strategy is one stage of the loader fallback chain.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, res *Resource) ([]model.Draw, error)
}

// DefaultChain is the chain used when no database is configured.
func DefaultChain() []Strategy {
	return []Strategy{
		Structured{},
		Raw{},
		Embedded{},
	}
}
