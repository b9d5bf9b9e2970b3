package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottopro/backend/internal/model"
	modelcache "github.com/lottopro/backend/internal/model/cache"
	"github.com/lottopro/backend/internal/pkg/sampler"
	"github.com/lottopro/backend/internal/source"
)

func unavailable(context.Context, string) ([]byte, error) {
	return nil, errors.New("no such resource")
}

// countingStage yields draws and counts how often it ran.
type countingStage struct {
	calls *atomic.Int32
	draws []model.Draw
}

func (countingStage) Name() string { return model.StageStructured }

func (s countingStage) Attempt(context.Context, *source.Resource) ([]model.Draw, error) {
	s.calls.Add(1)
	// widen the window for concurrent first callers
	time.Sleep(10 * time.Millisecond)
	return s.draws, nil
}

func mustDraw(t *testing.T, round int, numbers ...int) model.Draw {
	t.Helper()
	d, err := model.NewDraw(round, model.DrawDateOf(""), numbers, 45)
	require.NoError(t, err)
	return d
}

type services struct {
	history    *History
	analysis   *Analysis
	stats      *Stats
	prediction *Prediction
}

func newServices(chain ...source.Strategy) services {
	return newServicesFrom(source.NewChainLoader("", time.Second, unavailable, chain...))
}

func newServicesFrom(loader *source.Loader) services {
	caches := modelcache.New()
	history := NewHistory(loader, caches)
	analysis := NewAnalysis(history, caches)
	return services{
		history:    history,
		analysis:   analysis,
		stats:      NewStats(history, analysis, caches),
		prediction: NewPrediction(history, analysis, sampler.New(42)),
	}
}

func TestHistoryInitializesOnce(t *testing.T) {
	var calls atomic.Int32
	s := newServices(countingStage{calls: &calls, draws: source.EmbeddedDraws()})

	var wg sync.WaitGroup
	snaps := make([]*model.HistorySnapshot, 32)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i] = s.history.Snapshot(context.Background())
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, snap := range snaps {
		assert.Same(t, snaps[0], snap)
	}
	assert.EqualValues(t, 1, snaps[0].Version)
	assert.Equal(t, "structured parse (10 draws)", snaps[0].Provenance.Label())
}

func TestHistoryReplace(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	before := s.analysis.StatisticSets(ctx)
	require.EqualValues(t, 1, before.Version)

	draws := []model.Draw{
		mustDraw(t, 500, 1, 2, 3, 4, 5, 6),
		mustDraw(t, 501, 1, 2, 3, 4, 5, 7),
		mustDraw(t, 501, 8, 9, 10, 11, 12, 13),
	}
	snap, err := s.history.Replace(draws, model.Provenance{Stage: model.StageDatabase})
	require.NoError(t, err)
	assert.EqualValues(t, 2, snap.Version)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, 501, snap.Latest.LatestRound)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 7}, snap.Draws[0].Numbers)

	after := s.analysis.StatisticSets(ctx)
	assert.EqualValues(t, 2, after.Version)
	assert.NotSame(t, before, after)
	// number 1 appears in both draws
	assert.InDelta(t, 1.5, after.Frequency.Weight(1), 1e-9)
	assert.InDelta(t, 0.5, after.Frequency.Weight(45), 1e-9)

	_, err = s.history.Replace(nil, model.Provenance{Stage: model.StageDatabase})
	assert.ErrorIs(t, err, ErrEmptyHistory)
	assert.EqualValues(t, 2, s.history.Current().Version)
}

func TestHistoryRefreshFrom(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	first := s.history.Snapshot(ctx)
	second, err := s.history.RefreshFrom(ctx, "missing.csv")
	require.NoError(t, err)
	assert.Greater(t, second.Version, first.Version)
	assert.Equal(t, model.StageEmbedded, second.Provenance.Stage)
}

const overrideCSV = "round,draw_date,num1,num2,num3,num4,num5,num6,bonus\n" +
	"900,2024-01-06,1,2,3,4,5,6,7\n"

// tableReader stands in for the draw table repository.
type tableReader struct {
	draws []model.Draw
}

func (r tableReader) Available() bool { return true }

func (r tableReader) GetDraws(context.Context) ([]model.Draw, error) { return r.draws, nil }

func TestHistoryRefreshOverrideSkipsDatabase(t *testing.T) {
	table := make([]model.Draw, 0, 100)
	for round := 100; round > 0; round-- {
		table = append(table, mustDraw(t, round, 1, 2, 3, 4, 5, 6))
	}
	fetch := func(_ context.Context, location string) ([]byte, error) {
		if location == "override.csv" {
			return []byte(overrideCSV), nil
		}
		return nil, errors.New("no such resource")
	}
	chain := append([]source.Strategy{source.Database{Repo: tableReader{draws: table}}}, source.DefaultChain()...)
	s := newServicesFrom(source.NewChainLoader("history.csv", time.Second, fetch, chain...))
	ctx := context.Background()

	first := s.history.Snapshot(ctx)
	assert.Equal(t, model.StageDatabase, first.Provenance.Stage)
	assert.Equal(t, 100, first.Latest.LatestRound)

	snap, err := s.history.RefreshFrom(ctx, "override.csv")
	require.NoError(t, err)
	assert.Equal(t, model.StageStructured, snap.Provenance.Stage)
	assert.Equal(t, "override.csv", snap.Provenance.Resource)
	assert.Equal(t, 900, snap.Latest.LatestRound)

	snap, err = s.history.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StageDatabase, snap.Provenance.Stage)
}

func TestHistoryRefreshKeepsLoadedHistory(t *testing.T) {
	var down atomic.Bool
	fetch := func(context.Context, string) ([]byte, error) {
		if down.Load() {
			return nil, errors.New("connection reset")
		}
		return []byte(overrideCSV), nil
	}
	s := newServicesFrom(source.NewChainLoader("history.csv", time.Second, fetch, source.DefaultChain()...))
	ctx := context.Background()

	loaded := s.history.Snapshot(ctx)
	require.Equal(t, model.StageStructured, loaded.Provenance.Stage)

	down.Store(true)
	snap, err := s.history.Refresh(ctx)
	assert.ErrorIs(t, err, ErrRefreshDegraded)
	assert.Same(t, loaded, snap)
	assert.Same(t, loaded, s.history.Current())

	down.Store(false)
	snap, err = s.history.Refresh(ctx)
	require.NoError(t, err)
	assert.Greater(t, snap.Version, loaded.Version)
}

func TestAnalysisForHeldSnapshot(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	old := s.history.Snapshot(ctx)
	_, err := s.history.Replace([]model.Draw{mustDraw(t, 1, 1, 2, 3, 4, 5, 6)}, model.Provenance{Stage: model.StageRaw})
	require.NoError(t, err)

	sets := s.analysis.For(old)
	assert.Equal(t, old.Version, sets.Version)
	require.NotNil(t, sets.Counts)
	total := 0
	for _, c := range sets.Counts {
		total += c
	}
	assert.Equal(t, old.Len()*model.PickCount, total)

	// sets of a replaced snapshot are not cached
	current := s.analysis.StatisticSets(ctx)
	assert.Equal(t, s.history.Current().Version, current.Version)
	assert.NotSame(t, sets, current)
}

func TestPredictEmbeddedFallback(t *testing.T) {
	s := newServices()
	pinned := model.PinnedOf(7, 13)

	result, err := s.prediction.Predict(context.Background(), pinned)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "embedded fallback (10 draws)", result.DataSource)
	assert.Equal(t, pinned, result.PinnedNumbers)
	require.NotNil(t, result.CurrentRound)
	require.NotNil(t, result.NextRound)
	assert.Equal(t, 10, *result.CurrentRound)
	assert.Equal(t, 11, *result.NextRound)

	require.Len(t, result.Models, len(Roster))
	for _, entry := range Roster {
		m, ok := result.Models[entry.Key]
		require.True(t, ok, entry.Key)
		assert.Equal(t, entry.Name, m.Name)
		assert.Len(t, m.Predictions, PredictionsPerModel)
		for _, c := range m.Predictions {
			assert.True(t, c.Valid(), "%s: %v", entry.Key, c)
			assert.True(t, c.Covers(pinned), "%s: %v", entry.Key, c)
		}
	}
	assert.Equal(t, len(Roster)*PredictionsPerModel, result.TotalCombinations)
	assert.Len(t, result.TopRecommendations, TopRecommendationCount)
}

type panickingGenerator struct {
	mode model.Mode
	next Generator
}

func (g panickingGenerator) GenerateMany(mode model.Mode, pinned model.Pinned, st sampler.Statistics, count int) []model.Combination {
	if mode == g.mode {
		panic("boom")
	}
	return g.next.GenerateMany(mode, pinned, st, count)
}

func TestPredictModelFallback(t *testing.T) {
	s := newServices()
	s.prediction.Sampler = panickingGenerator{mode: model.ModeTrend, next: sampler.New(1)}

	result, err := s.prediction.Predict(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.Pinned{}, result.PinnedNumbers)
	assert.Equal(t, []model.Combination{model.FallbackCombination}, result.Models["trend"].Predictions)
	assert.Len(t, result.Models["frequency"].Predictions, PredictionsPerModel)
	assert.Equal(t, (len(Roster)-1)*PredictionsPerModel+1, result.TotalCombinations)
}

func TestPredictAssemblyFailure(t *testing.T) {
	s := newServices()
	s.prediction.Sampler = panickingGenerator{mode: model.ModeFrequency, next: sampler.New(1)}

	// top recommendations use the frequency mode outside the per-model guard
	result, err := s.prediction.Predict(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, result)

	fallback := UnavailableResult(nil)
	assert.False(t, fallback.Success)
	assert.Equal(t, UnavailableMessage, fallback.Message)
	assert.Empty(t, fallback.Models)
	assert.Equal(t, []model.Combination{model.FallbackCombination}, fallback.TopRecommendations)
}

func TestStatsView(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	view, err := s.stats.View(ctx)
	require.NoError(t, err)

	result := view.Result
	assert.Len(t, result.Frequency, model.MaxNumber)
	assert.Equal(t, 10, result.TotalDraws)
	assert.Len(t, result.HotNumbers, 10)
	assert.Len(t, result.ColdNumbers, 10)
	assert.GreaterOrEqual(t, result.HotNumbers[0].Count(), result.HotNumbers[9].Count())
	assert.LessOrEqual(t, result.ColdNumbers[0].Count(), result.ColdNumbers[9].Count())

	sum := 0
	for _, c := range result.Frequency {
		sum += c
	}
	assert.Equal(t, 10*model.PickCount, sum)

	again, err := s.stats.View(ctx)
	require.NoError(t, err)
	assert.Same(t, view, again)

	_, err = s.history.Replace([]model.Draw{mustDraw(t, 1, 1, 2, 3, 4, 5, 6)}, model.Provenance{Stage: model.StageRaw})
	require.NoError(t, err)

	replaced, err := s.stats.View(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, view.ETag, replaced.ETag)
	assert.Equal(t, 1, replaced.Result.TotalDraws)
	assert.Equal(t, "raw parse (1 draws)", replaced.Result.DataSource)
	assert.Equal(t, model.NumberCount{1, 1}, replaced.Result.HotNumbers[0])
	assert.Equal(t, model.NumberCount{7, 0}, replaced.Result.ColdNumbers[0])
}

func TestHealthWithoutDependencies(t *testing.T) {
	s := newServices()
	health := NewHealth(s.history, nil, nil)

	status := health.Status(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Nil(t, status.History)

	s.history.EnsureInitialized(context.Background())
	status = health.Status(context.Background())
	require.NotNil(t, status.History)
	assert.Equal(t, 10, status.History.LatestRound)
	assert.NoError(t, health.Ping(context.Background()))
}
