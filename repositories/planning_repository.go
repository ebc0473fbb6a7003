package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Dosada05/volley-planner/models"
)

// PlanningDocument is what the planning service returns for a tournament.
// TotalMatches is nil when the service did not report it.
type PlanningDocument struct {
	Bracket      *models.Bracket
	TotalMatches *int
}

type PlanningRepository interface {
	Generate(ctx context.Context, tournamentID string) (*PlanningDocument, error)
	GetByTournament(ctx context.Context, tournamentID string) (*PlanningDocument, error)
}

type httpPlanningRepository struct {
	api *apiClient
}

func NewHTTPPlanningRepository(baseURL string, httpClient *http.Client) PlanningRepository {
	return &httpPlanningRepository{api: newAPIClient(baseURL, httpClient)}
}

func (r *httpPlanningRepository) Generate(ctx context.Context, tournamentID string) (*PlanningDocument, error) {
	body := map[string]string{"tournament_id": tournamentID}
	env, err := r.api.do(ctx, http.MethodPost, "/planning/generate", nil, body)
	if err != nil {
		return nil, err
	}
	return decodePlanning(env)
}

func (r *httpPlanningRepository) GetByTournament(ctx context.Context, tournamentID string) (*PlanningDocument, error) {
	env, err := r.api.do(ctx, http.MethodGet, "/planning/tournament/"+url.PathEscape(tournamentID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodePlanning(env)
}

// decodePlanning accepts both {planning_data, total_matches} and a bare bracket as data.
func decodePlanning(env *envelope) (*PlanningDocument, error) {
	if !env.hasData() {
		return nil, fmt.Errorf("%w: no planning in response (%s)", ErrNotFound, env.Message)
	}

	var fields map[string]json.RawMessage
	if err := decodeData(env, &fields); err != nil {
		return nil, err
	}

	doc := &PlanningDocument{}
	if raw, ok := fields["total_matches"]; ok && !isNullJSON(raw) {
		var total int
		if err := json.Unmarshal(raw, &total); err != nil {
			return nil, fmt.Errorf("%w: total_matches: %w", ErrMalformedResponse, err)
		}
		doc.TotalMatches = &total
	}

	raw := env.Data
	if pd, ok := fields["planning_data"]; ok {
		if isNullJSON(pd) {
			return nil, fmt.Errorf("%w: planning_data is null (%s)", ErrNotFound, env.Message)
		}
		raw = pd
	}

	var bracket models.Bracket
	if err := json.Unmarshal(raw, &bracket); err != nil {
		return nil, fmt.Errorf("%w: planning data: %w", ErrMalformedResponse, err)
	}
	doc.Bracket = &bracket
	return doc, nil
}

func isNullJSON(raw json.RawMessage) bool {
	d := bytes.TrimSpace(raw)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}
