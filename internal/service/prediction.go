package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/pkg/observability"
	"github.com/lottopro/backend/internal/pkg/sampler"
)

const (
	PredictionsPerModel    = 10
	TopRecommendationCount = 5

	UnavailableMessage = "prediction is temporarily unavailable"
)

// RosterEntry describes one prediction model of the response.
type RosterEntry struct {
	Key         string
	Name        string
	Description string
	Mode        model.Mode
}

// Roster is the fixed, ordered list of prediction models.
var Roster = []RosterEntry{
	{
		Key:         "frequency",
		Name:        "Frequency Model",
		Description: "Weighs numbers by their all-time occurrence frequency",
		Mode:        model.ModeFrequency,
	},
	{
		Key:         "trend",
		Name:        "Trend Model",
		Description: "Weighs numbers by their occurrence in the 50 most recent draws",
		Mode:        model.ModeTrend,
	},
	{
		Key:         "pattern",
		Name:        "Pattern Model",
		Description: "Follows the sum, consecutive run and parity shape of past draws",
		Mode:        model.ModePattern,
	},
	{
		Key:         "statistical",
		Name:        "Statistical Model",
		Description: "Uniformly random combinations as the statistical baseline",
		Mode:        model.ModeUniform,
	},
	{
		Key:         "machine_learning",
		Name:        "Machine Learning Model",
		Description: "Uniformly random combinations until a trained model is available",
		Mode:        model.ModeUniform,
	},
}

// Generator produces combinations for one sampling mode.
type Generator interface {
	GenerateMany(mode model.Mode, pinned model.Pinned, st sampler.Statistics, count int) []model.Combination
}

type Prediction struct {
	History  *History
	Analysis *Analysis
	Sampler  Generator
}

func NewPrediction(history *History, analysis *Analysis, sampler *sampler.Sampler) *Prediction {
	return &Prediction{
		History:  history,
		Analysis: analysis,
		Sampler:  sampler,
	}
}

// Predict runs every roster model for pinned. A failing model degrades to the
// fallback combination; an error is only returned when the response itself
// cannot be assembled.
func (s *Prediction) Predict(ctx context.Context, pinned model.Pinned) (result *model.PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, errors.Errorf("prediction assembly panicked: %v", r)
		}
	}()

	if pinned == nil {
		pinned = model.Pinned{}
	}

	snap := s.History.Snapshot(ctx)
	if snap.Len() == 0 {
		return nil, ErrEmptyHistory
	}
	st := SamplerStatistics(s.Analysis.For(snap))

	result = &model.PredictionResult{
		Success:       true,
		PinnedNumbers: pinned,
		Models:        make(map[string]*model.ModelPrediction, len(Roster)),
		DataSource:    snap.Provenance.Label(),
	}
	for _, entry := range Roster {
		predictions := s.generate(entry, pinned, st)
		result.Models[entry.Key] = &model.ModelPrediction{
			Name:        entry.Name,
			Description: entry.Description,
			Predictions: predictions,
		}
		result.TotalCombinations += len(predictions)
	}
	result.TopRecommendations = s.Sampler.GenerateMany(model.ModeFrequency, pinned, st, TopRecommendationCount)

	if snap.Latest != nil {
		current := snap.Latest.LatestRound
		next := current + 1
		result.CurrentRound = &current
		result.NextRound = &next
	}

	return result, nil
}

func (s *Prediction) generate(entry RosterEntry, pinned model.Pinned, st sampler.Statistics) (predictions []model.Combination) {
	defer func() {
		if r := recover(); r != nil {
			observability.PredictionFallbacks.WithLabelValues(entry.Key).Inc()
			log.Error().
				Str("evt.name", "prediction.model.fallback").
				Str("model", entry.Key).
				Str("panic", fmt.Sprint(r)).
				Msg("prediction model failed, using fallback combination")
			predictions = []model.Combination{model.FallbackCombination}
		}
	}()

	return s.Sampler.GenerateMany(entry.Mode, pinned, st, PredictionsPerModel)
}

// UnavailableResult is the response body used when Predict fails. It carries
// only fixed data.
func UnavailableResult(pinned model.Pinned) *model.PredictionResult {
	if pinned == nil {
		pinned = model.Pinned{}
	}
	return &model.PredictionResult{
		Success:            false,
		Message:            UnavailableMessage,
		PinnedNumbers:      pinned,
		Models:             map[string]*model.ModelPrediction{},
		TopRecommendations: []model.Combination{model.FallbackCombination},
	}
}
