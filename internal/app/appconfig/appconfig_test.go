package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottopro/backend/internal/app/appcontext"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("LOTTOPRO_HISTORY_RESOURCE", "s3://draws/history.xlsx")
	t.Setenv("LOTTOPRO_SAMPLER_SEED", "1234")
	t.Setenv("LOTTOPRO_TRUSTED_PROXIES", "127.0.0.1")

	conf, err := Parse(appcontext.Declare(appcontext.EnvCLI))
	require.NoError(t, err)

	assert.Equal(t, "s3://draws/history.xlsx", conf.HistoryResource)
	assert.Equal(t, uint64(1234), conf.SamplerSeed)
	assert.Equal(t, []string{"127.0.0.1"}, conf.TrustedProxies)
	assert.Equal(t, 10*time.Second, conf.HistoryFetchTimeout)
	assert.Equal(t, uint(3), conf.HistoryFetchAttempts)
	assert.Equal(t, 60, conf.PredictRateLimit)
	assert.Equal(t, appcontext.EnvCLI, conf.AppContext.Env)
}

func TestParseInvalid(t *testing.T) {
	t.Setenv("LOTTOPRO_PREDICT_RATE_LIMIT", "many")

	_, err := Parse(appcontext.Declare(appcontext.EnvCLI))
	assert.Error(t, err)
}
