package models

import "time"

// MatchPhase is the bracket section a flattened match came from.
type MatchPhase string

const (
	PhasePool         MatchPhase = "pool"
	PhaseQuarterfinal MatchPhase = "quarterfinal"
	PhaseSemifinal    MatchPhase = "semifinal"
	PhaseFinal        MatchPhase = "final"
)

// RawMatch is a match record exactly as the planning service sends it.
// Timestamps stay strings here; they are parsed when the bracket is flattened.
type RawMatch struct {
	Court     int    `json:"terrain"`
	TeamA     string `json:"equipe_a"`
	TeamB     string `json:"equipe_b"`
	Duration  *int   `json:"duration,omitempty"` // ignored, recomputed from start/end
	StartTime string `json:"debut_horaire"`
	EndTime   string `json:"fin_horaire"`
}

// Match is the normalized, flat representation used by the calendar and table views.
type Match struct {
	Court     int        `json:"court"`
	TeamA     string     `json:"team_a"`
	TeamB     string     `json:"team_b"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Duration  int        `json:"duration"`
	Phase     MatchPhase `json:"phase"`
	PoolID    string     `json:"pool_id,omitempty"`
}
