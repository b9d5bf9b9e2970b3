package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "lottopro"
)

var (
	LoaderAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "loader", "attempts_total"),
		Help: "History loader stage attempts by outcome",
	}, []string{"stage", "outcome"})
	HistoryRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "history", "records"),
		Help: "Amount of draw records in the active history snapshot",
	})
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "analysis", "duration_seconds"),
		Help:    "Duration of statistic set computation in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{})
	PredictionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "prediction", "fallbacks_total"),
		Help: "Prediction models that fell back to the fixed combination",
	}, []string{"model"})
)
