package model

// ModelPrediction is the output of a single roster entry.
type ModelPrediction struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Predictions []Combination `json:"predictions"`
}

// PredictionResult is the aggregated answer of a prediction request.
type PredictionResult struct {
	Success            bool                        `json:"success"`
	Message            string                      `json:"message,omitempty"`
	PinnedNumbers      Pinned                      `json:"pinned_numbers"`
	Models             map[string]*ModelPrediction `json:"models"`
	TopRecommendations []Combination               `json:"top_recommendations"`
	TotalCombinations  int                         `json:"total_combinations"`
	DataSource         string                      `json:"data_source"`
	CurrentRound       *int                        `json:"current_round,omitempty"`
	NextRound          *int                        `json:"next_round,omitempty"`
}
