package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/volley-planner/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// CreateTeam godoc
// @Summary      Create a team
// @Description  Resolves the captain and member emails to user ids, creates the team and adds the resolved members.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        tournamentID  path      string                    true  "Tournament ID"
// @Param        team          body      services.CreateTeamInput  true  "Team"
// @Success      201           {object}  map[string]interface{}
// @Failure      400           {object}  map[string]interface{}
// @Failure      422           {object}  map[string]interface{}
// @Failure      502           {object}  map[string]interface{}
// @Router       /api/tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateTeamInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.teamService.CreateTeam(r.Context(), tournamentID, input)
	if err != nil {
		// Команда создана, но участники не добавлены: отдаём частичный результат
		if errors.Is(err, services.ErrMembersNotAdded) && result != nil {
			slog.WarnContext(r.Context(), "team created without members", slog.Any("error", err))
			writeResponse(w, r, http.StatusBadGateway, jsonResponse{
				"error":  err.Error(),
				"result": result,
			})
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusCreated, jsonResponse{"result": result})
}

// ListTeams godoc
// @Summary      List teams with their members
// @Tags         teams
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, jsonResponse{"teams": teams})
}
