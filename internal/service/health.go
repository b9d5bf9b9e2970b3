package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/pkg/bininfo"
	"github.com/lottopro/backend/internal/repo"
)

var (
	ErrDatabaseNotReachable = errors.New("database not reachable")
	ErrRedisNotReachable    = errors.New("redis not reachable")
)

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	History   *HistoryHealth    `json:"history,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HistoryHealth struct {
	Source      string `json:"source"`
	Records     int    `json:"records"`
	LatestRound int    `json:"latest_round"`
	Version     uint64 `json:"version"`
}

type Health struct {
	History *History
	Draw    *repo.Draw
	Redis   *redis.Client
}

func NewHealth(history *History, draw *repo.Draw, redis *redis.Client) *Health {
	return &Health{
		History: history,
		Draw:    draw,
		Redis:   redis,
	}
}

// Ping checks the optional dependencies that are configured.
func (s *Health) Ping(ctx context.Context) error {
	if s.Draw.Available() {
		if err := s.Draw.Ping(ctx); err != nil {
			return errors.Wrap(ErrDatabaseNotReachable, err.Error())
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return errors.Wrap(ErrRedisNotReachable, err.Error())
		}
	}

	return nil
}

// Status reports liveness along with the active history. It never loads the
// history itself.
func (s *Health) Status(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   bininfo.Version,
		Checks:    map[string]string{},
	}

	if s.Draw.Available() {
		status.Checks["database"] = "ok"
	}
	if s.Redis != nil {
		status.Checks["redis"] = "ok"
	}
	if err := s.Ping(ctx); err != nil {
		status.Status = "degraded"
		switch {
		case errors.Is(err, ErrDatabaseNotReachable):
			status.Checks["database"] = "unreachable"
		case errors.Is(err, ErrRedisNotReachable):
			status.Checks["redis"] = "unreachable"
		}
	}

	if snap := s.History.Current(); snap != nil {
		status.History = historyHealth(snap)
	}
	return status
}

func historyHealth(snap *model.HistorySnapshot) *HistoryHealth {
	h := &HistoryHealth{
		Source:  snap.Provenance.Label(),
		Records: snap.Len(),
		Version: snap.Version,
	}
	if snap.Latest != nil {
		h.LatestRound = snap.Latest.LatestRound
	}
	return h
}
