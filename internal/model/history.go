package model

import (
	"fmt"
	"time"
)

// Stage names of the history loader, used in provenance labels and metrics.
const (
	StageDatabase   = "database"
	StageStructured = "structured parse"
	StageRaw        = "raw parse"
	StageEmbedded   = "embedded fallback"
)

// Provenance records which loader stage produced the active history.
type Provenance struct {
	Stage    string    `json:"stage"`
	Resource string    `json:"resource,omitempty"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Label is the human readable data source, e.g. "embedded fallback (10 draws)".
func (p Provenance) Label() string {
	return fmt.Sprintf("%s (%d draws)", p.Stage, p.Records)
}

// HistorySnapshot is an immutable view of the draw history. Draws are ordered
// newest first. Version increases with every replacement.
type HistorySnapshot struct {
	Draws      []Draw
	Latest     *RoundInfo
	Provenance Provenance
	Version    uint64
}

func (s *HistorySnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Draws)
}
