package handler

import (
	"errors"
	"net/http"

	"github.com/nprevot/hitman/internal/auth"
	"github.com/nprevot/hitman/internal/service"
	"github.com/nprevot/hitman/pkg/knowledge"
)

// RunHandler handles the run-launching endpoints.
type RunHandler struct {
	runSvc *service.RunService
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(runSvc *service.RunService) *RunHandler {
	return &RunHandler{runSvc: runSvc}
}

// LaunchRun handles POST /api/v1/runs
func (h *RunHandler) LaunchRun(w http.ResponseWriter, r *http.Request) {
	callerID := auth.CallerIDFromContext(r.Context())
	var req struct {
		Scenario string `json:"scenario"`
		SATMode  string `json:"sat_mode,omitempty"`
		Costume  bool   `json:"costume_combinaisons,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Scenario == "" {
		writeError(w, http.StatusBadRequest, "scenario is required")
		return
	}

	satMode, err := knowledge.ParseSATMode(req.SATMode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runID, err := h.runSvc.Launch(r.Context(), service.LaunchRequest{
		ScenarioName: req.Scenario,
		SATMode:      satMode,
		Costume:      req.Costume,
		CallerID:     callerID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

// GetRun handles GET /api/v1/runs/{id}
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	summary, err := h.runSvc.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summary == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
