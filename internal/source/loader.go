package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/app/appconfig"
	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/pkg/observability"
)

// Result is the outcome of a load. Draws is never empty.
type Result struct {
	Draws      []model.Draw
	Latest     *model.RoundInfo
	Provenance model.Provenance
}

// Loader runs the fallback chain until a stage yields at least one valid draw.
type Loader struct {
	resource string
	timeout  time.Duration
	fetch    FetchFunc
	chain    []Strategy
}

func NewLoader(conf *appconfig.Config, fetcher *Fetcher, drawReader DrawReader) *Loader {
	chain := make([]Strategy, 0, 4)
	if drawReader != nil && drawReader.Available() {
		chain = append(chain, Database{Repo: drawReader})
	}
	chain = append(chain, DefaultChain()...)

	return NewChainLoader(conf.HistoryResource, conf.HistoryFetchTimeout, fetcher.Fetch, chain...)
}

// NewChainLoader builds a Loader over an explicit chain. The embedded stage is
// appended when the chain does not already end with it.
func NewChainLoader(resource string, timeout time.Duration, fetch FetchFunc, chain ...Strategy) *Loader {
	if len(chain) == 0 || chain[len(chain)-1].Name() != model.StageEmbedded {
		chain = append(chain, Embedded{})
	}
	return &Loader{
		resource: resource,
		timeout:  timeout,
		fetch:    fetch,
		chain:    chain,
	}
}

func (l *Loader) Resource() string {
	return l.resource
}

// Load runs the chain against the configured resource. It never fails.
func (l *Loader) Load(ctx context.Context) Result {
	return l.LoadFrom(ctx, l.resource)
}

// LoadFrom runs the chain against location instead of the configured resource.
// The database stage only serves the configured resource; an overriding
// location is read from the resource itself.
func (l *Loader) LoadFrom(ctx context.Context, location string) Result {
	override := location != l.resource

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	res := NewResource(location, l.fetch)
	for _, stage := range l.chain {
		if override && stage.Name() == model.StageDatabase {
			continue
		}

		draws, err := l.attempt(ctx, stage, res)
		if err != nil {
			observability.LoaderAttempts.WithLabelValues(stage.Name(), "failure").Inc()
			log.Warn().
				Err(err).
				Str("evt.name", "source.stage.failed").
				Str("stage", stage.Name()).
				Str("resource", location).
				Msg("history loader stage failed, trying next stage")
			continue
		}

		observability.LoaderAttempts.WithLabelValues(stage.Name(), "success").Inc()
		result := newResult(stage.Name(), location, draws)
		log.Info().
			Str("evt.name", "source.loaded").
			Str("stage", stage.Name()).
			Int("records", len(result.Draws)).
			Int("latest_round", result.Latest.LatestRound).
			Msg("history loaded")
		return result
	}

	// only reachable with a chain whose embedded stage was replaced
	return newResult(model.StageEmbedded, location, EmbeddedDraws())
}

func (l *Loader) attempt(ctx context.Context, stage Strategy, res *Resource) (draws []model.Draw, err error) {
	defer func() {
		if r := recover(); r != nil {
			draws, err = nil, fmt.Errorf("stage panicked: %v", r)
		}
	}()

	draws, err = stage.Attempt(ctx, res)
	if err != nil {
		return nil, err
	}
	draws = Normalize(draws)
	if len(draws) == 0 {
		return nil, ErrNoRecords
	}
	return draws, nil
}

func newResult(stage, location string, draws []model.Draw) Result {
	draws = Normalize(draws)
	resource := location
	switch stage {
	case model.StageEmbedded:
		resource = ""
	case model.StageDatabase:
		resource = "postgres:draws"
	}
	return Result{
		Draws:  draws,
		Latest: model.RoundInfoOf(draws[0]),
		Provenance: model.Provenance{
			Stage:    stage,
			Resource: resource,
			Records:  len(draws),
			LoadedAt: time.Now(),
		},
	}
}
