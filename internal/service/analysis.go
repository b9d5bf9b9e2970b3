package service

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/lottopro/backend/internal/model"
	modelcache "github.com/lottopro/backend/internal/model/cache"
	"github.com/lottopro/backend/internal/pkg/drawstat"
	"github.com/lottopro/backend/internal/pkg/observability"
	"github.com/lottopro/backend/internal/pkg/sampler"
)

// Analysis serves the statistic sets of the active history snapshot.
type Analysis struct {
	History *History
	Caches  *modelcache.Caches

	group singleflight.Group
}

func NewAnalysis(history *History, caches *modelcache.Caches) *Analysis {
	return &Analysis{
		History: history,
		Caches:  caches,
	}
}

// StatisticSets returns the sets of the current snapshot.
func (s *Analysis) StatisticSets(ctx context.Context) *model.StatisticSets {
	return s.For(s.History.Snapshot(ctx))
}

// For returns the sets of snap. Callers holding a snapshot pass it here so the
// sets match the snapshot they render. Only sets of the active version are
// cached.
func (s *Analysis) For(snap *model.HistorySnapshot) *model.StatisticSets {
	if sets, err := s.Caches.StatisticSets.Get(); err == nil && sets.Version == snap.Version {
		return sets
	}

	v, _, _ := s.group.Do(strconv.FormatUint(snap.Version, 10), func() (any, error) {
		start := time.Now()
		sets := drawstat.Analyze(snap.Draws, snap.Version)
		observability.AnalysisDuration.WithLabelValues().Observe(time.Since(start).Seconds())

		// a replace may have happened meanwhile; do not resurrect an old version
		if current := s.History.Current(); current != nil && current.Version == sets.Version {
			s.Caches.StatisticSets.Set(sets, gocache.NoExpiration)
		}
		return sets, nil
	})
	return v.(*model.StatisticSets)
}

// SamplerStatistics narrows sets to the inputs of the biased sampling modes.
func SamplerStatistics(sets *model.StatisticSets) sampler.Statistics {
	if sets == nil {
		return sampler.Statistics{}
	}
	return sampler.Statistics{
		Frequency: sets.Frequency,
		Trend:     sets.Trend,
		Pattern:   sets.Pattern,
	}
}
