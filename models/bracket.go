package models

import (
	"encoding/json"
	"time"
)

// Bracket is the nested schedule document produced by the planning service.
type Bracket struct {
	TournamentType   string            `json:"type_tournoi,omitempty"`
	Pools            []Pool            `json:"poules,omitempty"`
	EliminationPhase *EliminationPhase `json:"phase_elimination_apres_poules,omitempty"`

	// Pass-through fields, never transformed.
	FinalRanking json.RawMessage `json:"final_ranking,omitempty"`
	Comments     string          `json:"commentaires,omitempty"`
}

type Pool struct {
	ID      string     `json:"poule_id"`
	Name    string     `json:"nom_poule"`
	Teams   []string   `json:"equipes"`
	Matches []RawMatch `json:"matchs"`
}

// EliminationPhase holds the knockout rounds played after the pool stage.
// Final is a single record, not a list.
type EliminationPhase struct {
	Quarterfinals []RawMatch `json:"quarts,omitempty"`
	Semifinals    []RawMatch `json:"demi_finales,omitempty"`
	Final         *RawMatch  `json:"finale,omitempty"`
}

// Planning is a bracket together with its flattened match list.
type Planning struct {
	TournamentID string    `json:"tournament_id"`
	TotalMatches int       `json:"total_matches"`
	Bracket      *Bracket  `json:"planning"`
	Matches      []Match   `json:"matches"`
	FetchedAt    time.Time `json:"fetched_at"`
}
