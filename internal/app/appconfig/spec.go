package appconfig

import (
	"time"

	"github.com/lottopro/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is where logs are additionally written to, rotated by size. Leave empty to disable file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic. See internal/server/httpserver/http.go for the
	// actual implementation details.
	DevMode bool `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing. Spans are exported over OTLP/gRPC,
	// configured by the standard OTEL_EXPORTER_OTLP_* environment variables.
	TracingEnabled bool `split_words:"true"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// history source

	// HistoryResource is where historical draws are read from. Accepts a filesystem path, a file://,
	// http(s):// or s3://bucket/key URL. CSV and xlsx contents are both understood.
	HistoryResource string `split_words:"true" default:"data/history.csv"`

	// HistoryFetchTimeout bounds a whole history load, including retries and the optional database query.
	HistoryFetchTimeout time.Duration `split_words:"true" default:"10s"`

	// HistoryFetchAttempts is how often an http(s) history resource is requested before giving up.
	HistoryFetchAttempts uint `split_words:"true" default:"3"`

	// AWSRegion is the region of the bucket behind an s3:// history resource.
	AWSRegion string `split_words:"true"`

	// AWSAccessKey and AWSSecretKey are static credentials for s3:// history resources.
	// Leave empty to use the default AWS credential chain.
	AWSAccessKey string `split_words:"true"`
	AWSSecretKey string `split_words:"true"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL database holding the draws table. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	// Leaving this empty disables the database stage of the history loader.
	PostgresDSN string `split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// RedisURL is the URL of the Redis server backing the rate limiter. See
	// https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL for more information on how to construct a Redis URL.
	// Leaving this empty keeps rate limiter state in memory.
	RedisURL string `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// AdminKey is the key used to authenticate the admin API. Leaving this empty disables the admin API.
	AdminKey string `split_words:"true"`

	// SamplerSeed seeds the combination sampler. Zero picks a random seed on every start.
	SamplerSeed uint64 `split_words:"true"`

	// PredictRateLimit is the amount of prediction requests a single client may issue per minute.
	PredictRateLimit int `split_words:"true" default:"60"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
