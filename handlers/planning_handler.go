package handlers

import (
	"net/http"

	"github.com/Dosada05/volley-planner/services"
)

type PlanningHandler struct {
	planningService services.PlanningService
}

func NewPlanningHandler(ps services.PlanningService) *PlanningHandler {
	return &PlanningHandler{planningService: ps}
}

// GeneratePlanning godoc
// @Summary      Generate a planning
// @Description  Asks the planning service to compute a schedule and notifies the tournament room.
// @Tags         planning
// @Produce      json
// @Param        tournamentID  path      string  true  "Tournament ID"
// @Success      201           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]interface{}
// @Failure      502           {object}  map[string]interface{}
// @Router       /api/tournaments/{tournamentID}/planning/generate [post]
func (h *PlanningHandler) GeneratePlanning(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	p, err := h.planningService.GeneratePlanning(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusCreated, jsonResponse{"planning": p})
}

// GetPlanning godoc
// @Summary      Get the planning of a tournament
// @Description  Returns the bracket together with its flattened match list.
// @Tags         planning
// @Produce      json
// @Param        tournamentID  path      string  true  "Tournament ID"
// @Success      200           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]interface{}
// @Router       /api/tournaments/{tournamentID}/planning [get]
func (h *PlanningHandler) GetPlanning(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	p, err := h.planningService.GetPlanning(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, jsonResponse{"planning": p})
}

// GetCalendar godoc
// @Summary      Planning as a time by court grid
// @Tags         planning
// @Produce      json
// @Param        tournamentID  path      string  true  "Tournament ID"
// @Success      200           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]interface{}
// @Router       /api/tournaments/{tournamentID}/planning/calendar [get]
func (h *PlanningHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cal, err := h.planningService.GetCalendar(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, jsonResponse{"calendar": cal})
}

// GetTable godoc
// @Summary      Planning as a flat table
// @Tags         planning
// @Produce      json
// @Param        tournamentID  path      string  true  "Tournament ID"
// @Success      200           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]interface{}
// @Router       /api/tournaments/{tournamentID}/planning/table [get]
func (h *PlanningHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.planningService.GetTable(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, jsonResponse{"rows": rows, "total": len(rows)})
}

// ExportPlanning godoc
// @Summary      Export the planning table as CSV
// @Description  Uploads the table to object storage and returns its public URL.
// @Tags         planning
// @Produce      json
// @Param        tournamentID  path      string  true  "Tournament ID"
// @Success      201           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]interface{}
// @Failure      503           {object}  map[string]interface{}
// @Router       /api/tournaments/{tournamentID}/planning/export [post]
func (h *PlanningHandler) ExportPlanning(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	export, err := h.planningService.ExportPlanning(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusCreated, jsonResponse{"export": export})
}
