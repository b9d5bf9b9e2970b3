package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/app/appconfig"
)

// Redis connects to the rate limiter store. It returns a nil client when no URL
// is configured, in which case rate limiting falls back to process memory.
func Redis(lc fx.Lifecycle, conf *appconfig.Config) (*redis.Client, error) {
	if conf.RedisURL == "" {
		log.Info().Str("evt.name", "infra.redis.disabled").Msg("infra: redis: no url configured, using in-memory rate limiter")
		return nil, nil
	}

	u, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to parse redis url")
		return nil, err
	}

	client := redis.NewClient(u)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to ping database")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
