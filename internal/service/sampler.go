package service

import (
	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/app/appconfig"
	"github.com/lottopro/backend/internal/pkg/sampler"
)

// NewSampler provides the process-wide sampler. A configured seed makes every
// prediction reproducible, which is only useful for debugging.
func NewSampler(conf *appconfig.Config) *sampler.Sampler {
	if conf.SamplerSeed != 0 {
		log.Warn().
			Uint64("seed", conf.SamplerSeed).
			Msg("sampler is running with a fixed seed, predictions are reproducible")
	}
	return sampler.New(conf.SamplerSeed)
}
