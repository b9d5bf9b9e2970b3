package model

// NumberCount is a [number, count] pair; it encodes as a two element array.
type NumberCount [2]int

func (nc NumberCount) Number() int { return nc[0] }

func (nc NumberCount) Count() int { return nc[1] }

// StatsResult is the public frequency and hot/cold view of the history.
type StatsResult struct {
	Frequency   map[int]int   `json:"frequency"`
	HotNumbers  []NumberCount `json:"hot_numbers"`
	ColdNumbers []NumberCount `json:"cold_numbers"`
	TotalDraws  int           `json:"total_draws"`
	DataSource  string        `json:"data_source"`
}

// StatsView is a StatsResult tagged with the snapshot it was derived from.
type StatsView struct {
	Version uint64
	ETag    string
	Result  *StatsResult
}
