package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Dosada05/volley-planner/models"
)

type TeamRepository interface {
	ListWithMembers(ctx context.Context) ([]models.Team, error)
	Create(ctx context.Context, tournamentID string, payload models.CreateTeamPayload) (*models.Team, error)
	AddMembers(ctx context.Context, teamID models.ID, players []models.TeamPlayer) error
}

type httpTeamRepository struct {
	api *apiClient
}

func NewHTTPTeamRepository(baseURL string, httpClient *http.Client) TeamRepository {
	return &httpTeamRepository{api: newAPIClient(baseURL, httpClient)}
}

func (r *httpTeamRepository) ListWithMembers(ctx context.Context) ([]models.Team, error) {
	env, err := r.api.do(ctx, http.MethodGet, "/teams/with-members", nil, nil)
	if err != nil {
		return nil, err
	}
	teams := []models.Team{}
	if !env.hasData() {
		return teams, nil
	}
	if err := decodeData(env, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *httpTeamRepository) Create(ctx context.Context, tournamentID string, payload models.CreateTeamPayload) (*models.Team, error) {
	path := "/tournaments/" + url.PathEscape(tournamentID) + "/teams/"
	env, err := r.api.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	if !env.hasData() {
		return nil, fmt.Errorf("%w: team creation returned no team (%s)", ErrMalformedResponse, env.Message)
	}
	var team models.Team
	if err := decodeData(env, &team); err != nil {
		return nil, err
	}
	if team.ID == "" {
		return nil, fmt.Errorf("%w: created team has no id", ErrMalformedResponse)
	}
	return &team, nil
}

func (r *httpTeamRepository) AddMembers(ctx context.Context, teamID models.ID, players []models.TeamPlayer) error {
	body := struct {
		TeamID  models.ID           `json:"team_id"`
		Players []models.TeamPlayer `json:"players"`
	}{
		TeamID:  teamID,
		Players: players,
	}
	path := "/tournaments/teams/" + url.PathEscape(teamID.String()) + "/members"
	_, err := r.api.do(ctx, http.MethodPost, path, nil, body)
	return err
}
