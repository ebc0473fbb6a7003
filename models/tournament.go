package models

import "encoding/json"

// TournamentStatus mirrors the statuses exposed by the BDD service.
type TournamentStatus string

const (
	StatusDraft      TournamentStatus = "draft"
	StatusReady      TournamentStatus = "ready"
	StatusInProgress TournamentStatus = "in_progress"
	StatusCompleted  TournamentStatus = "completed"
	StatusCancelled  TournamentStatus = "cancelled"
)

type TournamentType string

const (
	TypePoolsElimination  TournamentType = "poules_elimination"
	TypeRoundRobin        TournamentType = "round_robin"
	TypeSingleElimination TournamentType = "elimination_directe"
	TypeDoubleElimination TournamentType = "double_elimination"
)

// Tournament is the tournament summary used by the planning and team selectors.
type Tournament struct {
	ID                   ID               `json:"id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description,omitempty"`
	CourtsAvailable      json.RawMessage  `json:"courts_available,omitempty"`
	MatchDurationMinutes int              `json:"match_duration_minutes,omitempty"`
	BreakDurationMinutes int              `json:"break_duration_minutes,omitempty"`
	Status               TournamentStatus `json:"status"`
	StartDate            string           `json:"start_date,omitempty"`
	StartTime            string           `json:"start_time,omitempty"`
	MaxTeams             int              `json:"max_teams,omitempty"`
	RegisteredTeams      int              `json:"registered_teams,omitempty"`
	TournamentType       TournamentType   `json:"tournament_type,omitempty"`
}
