package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lottopro/backend/internal/model"
	modelcache "github.com/lottopro/backend/internal/model/cache"
	"github.com/lottopro/backend/internal/pkg/observability"
	"github.com/lottopro/backend/internal/source"
)

var (
	ErrEmptyHistory = errors.New("history: refusing to replace with no valid draws")

	// ErrRefreshDegraded is returned when a refresh could only reach the embedded
	// draws while a loaded history is active. The active snapshot is kept.
	ErrRefreshDegraded = errors.New("history: refresh fell back to embedded draws, keeping active snapshot")
)

// History owns the process-wide draw history. The active snapshot is immutable
// and swapped atomically; readers never block on a reload.
type History struct {
	Loader *source.Loader
	Caches *modelcache.Caches

	// mu serializes loads and replaces
	mu       sync.Mutex
	snapshot atomic.Pointer[model.HistorySnapshot]
	version  uint64
}

func NewHistory(loader *source.Loader, caches *modelcache.Caches) *History {
	return &History{
		Loader: loader,
		Caches: caches,
	}
}

// EnsureInitialized runs the loader once if no snapshot exists yet.
func (s *History) EnsureInitialized(ctx context.Context) {
	if s.snapshot.Load() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Load() != nil {
		return
	}

	result := s.Loader.Load(ctx)
	s.replace(result.Draws, result.Provenance)
}

// Snapshot returns the active snapshot, loading it first if needed.
func (s *History) Snapshot(ctx context.Context) *model.HistorySnapshot {
	s.EnsureInitialized(ctx)
	return s.snapshot.Load()
}

// Current returns the active snapshot without loading it; nil before the
// first load.
func (s *History) Current() *model.HistorySnapshot {
	return s.snapshot.Load()
}

// Replace installs draws as the new active history. Derived caches are flushed
// before it returns.
func (s *History) Replace(draws []model.Draw, provenance model.Provenance) (*model.HistorySnapshot, error) {
	draws = lo.Filter(draws, func(d model.Draw, _ int) bool {
		return d.Validate() == nil
	})
	if len(draws) == 0 {
		return nil, ErrEmptyHistory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replace(draws, provenance), nil
}

// Refresh re-runs the loader against the configured resource.
func (s *History) Refresh(ctx context.Context) (*model.HistorySnapshot, error) {
	return s.RefreshFrom(ctx, s.Loader.Resource())
}

// RefreshFrom re-runs the loader against location. An empty location means the
// configured resource. A result from the embedded stage never replaces a
// loaded history; the active snapshot is returned with ErrRefreshDegraded.
func (s *History) RefreshFrom(ctx context.Context, location string) (*model.HistorySnapshot, error) {
	if location == "" {
		location = s.Loader.Resource()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.Loader.LoadFrom(ctx, location)

	current := s.snapshot.Load()
	if result.Provenance.Stage == model.StageEmbedded && current != nil && current.Provenance.Stage != model.StageEmbedded {
		log.Warn().
			Str("evt.name", "history.refresh.degraded").
			Str("resource", location).
			Str("source", current.Provenance.Label()).
			Uint64("version", current.Version).
			Msg("history refresh only reached embedded draws, keeping active snapshot")
		return current, ErrRefreshDegraded
	}

	return s.replace(result.Draws, result.Provenance), nil
}

func (s *History) replace(draws []model.Draw, provenance model.Provenance) *model.HistorySnapshot {
	draws = source.Normalize(draws)
	if provenance.LoadedAt.IsZero() {
		provenance.LoadedAt = time.Now()
	}
	provenance.Records = len(draws)

	s.version++
	snap := &model.HistorySnapshot{
		Draws:      draws,
		Latest:     model.RoundInfoOf(draws[0]),
		Provenance: provenance,
		Version:    s.version,
	}
	s.snapshot.Store(snap)

	if err := s.Caches.Flush(); err != nil {
		log.Error().Err(err).Msg("failed to flush derived caches after history replace")
	}
	observability.HistoryRecords.Set(float64(len(draws)))

	log.Info().
		Str("evt.name", "history.replaced").
		Uint64("version", snap.Version).
		Str("source", provenance.Label()).
		Int("latest_round", snap.Latest.LatestRound).
		Msg("history snapshot replaced")

	return snap
}
