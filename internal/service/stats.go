package service

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/lottopro/backend/internal/model"
	modelcache "github.com/lottopro/backend/internal/model/cache"
	"github.com/lottopro/backend/internal/pkg/cachectrl"
	"github.com/lottopro/backend/internal/pkg/drawstat"
)

const rankSize = 10

type Stats struct {
	History  *History
	Analysis *Analysis
	Caches   *modelcache.Caches

	group singleflight.Group
}

func NewStats(history *History, analysis *Analysis, caches *modelcache.Caches) *Stats {
	return &Stats{
		History:  history,
		Analysis: analysis,
		Caches:   caches,
	}
}

// View returns the frequency and hot/cold view of the current snapshot along
// with its entity tag.
func (s *Stats) View(ctx context.Context) (*model.StatsView, error) {
	snap := s.History.Snapshot(ctx)
	if view, err := s.Caches.StatsView.Get(); err == nil && view.Version == snap.Version {
		return view, nil
	}

	v, err, _ := s.group.Do(strconv.FormatUint(snap.Version, 10), func() (any, error) {
		view, err := s.build(snap)
		if err != nil {
			return nil, err
		}
		if current := s.History.Current(); current != nil && current.Version == view.Version {
			s.Caches.StatsView.Set(view, gocache.NoExpiration)
		}
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.StatsView), nil
}

func (s *Stats) build(snap *model.HistorySnapshot) (*model.StatsView, error) {
	sets := s.Analysis.For(snap)

	frequency := make(map[int]int, model.MaxNumber)
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		frequency[n] = 0
		if sets.Counts != nil {
			frequency[n] = sets.Counts[n]
		}
	}

	result := &model.StatsResult{
		Frequency:   frequency,
		HotNumbers:  drawstat.Hottest(sets.RecentCounts, rankSize),
		ColdNumbers: drawstat.Coldest(sets.RecentCounts, rankSize),
		TotalDraws:  snap.Len(),
		DataSource:  snap.Provenance.Label(),
	}

	body, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode stats result")
	}

	return &model.StatsView{
		Version: snap.Version,
		ETag:    cachectrl.ETag(body),
		Result:  result,
	}, nil
}
