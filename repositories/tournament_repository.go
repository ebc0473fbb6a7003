package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dosada05/volley-planner/models"
)

type TournamentRepository interface {
	List(ctx context.Context) ([]models.Tournament, error)
}

type httpTournamentRepository struct {
	api *apiClient
}

func NewHTTPTournamentRepository(baseURL string, httpClient *http.Client) TournamentRepository {
	return &httpTournamentRepository{api: newAPIClient(baseURL, httpClient)}
}

func (r *httpTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	env, err := r.api.do(ctx, http.MethodGet, "/tournaments/", nil, nil)
	if err != nil {
		return nil, err
	}
	if !env.hasData() {
		return []models.Tournament{}, nil
	}
	return decodeTournaments(env.Data)
}

// decodeTournaments accepts both a bare array and {"tournaments": [...]} as data.
func decodeTournaments(data json.RawMessage) ([]models.Tournament, error) {
	tournaments := []models.Tournament{}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &tournaments); err != nil {
			return nil, fmt.Errorf("%w: tournaments: %w", ErrMalformedResponse, err)
		}
		return tournaments, nil
	}

	var wrapped struct {
		Tournaments *[]models.Tournament `json:"tournaments"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: tournaments: %w", ErrMalformedResponse, err)
	}
	if wrapped.Tournaments == nil {
		return nil, fmt.Errorf("%w: tournaments: no tournament list in data", ErrMalformedResponse)
	}
	if *wrapped.Tournaments != nil {
		tournaments = *wrapped.Tournaments
	}
	return tournaments, nil
}
