package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "bookhaus/pkg/errors"
	httputil "bookhaus/pkg/http"
	"bookhaus/pkg/timeslot"
)

// ListResources returns every resource with its selectable marker.
// Non-compliant vehicles stay in the list so the UI can show them disabled.
func (h *EngineHandler) ListResources(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listings := h.engine.ListResources()

	if err := httputil.WriteSuccess(w, listings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListResources", "error", err)
	}
}

type complianceRequest struct {
	Today string `json:"today,omitempty"`
}

func (h *EngineHandler) RecomputeCompliance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req complianceRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "RecomputeCompliance", apperrors.InvalidInput("Invalid request body"))
			return
		}
	}

	today := time.Now()
	if req.Today != "" {
		parsed, err := timeslot.ParseDate(req.Today)
		if err != nil {
			h.writeError(w, "RecomputeCompliance", apperrors.InvalidInput(err.Error()))
			return
		}
		today = parsed
	}

	compliant, err := h.engine.RecomputeCompliance(ps.ByName("id"), today)
	if err != nil {
		h.writeError(w, "RecomputeCompliance", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"is_compliant": compliant}); err != nil {
		h.log.Error("failed to write success response", "handler", "RecomputeCompliance", "error", err)
	}
}

func (h *EngineHandler) ComplianceSweep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	failed := h.engine.ComplianceSweep(time.Now())

	if err := httputil.WriteSuccess(w, map[string]any{
		"non_compliant": failed,
		"count":         len(failed),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "ComplianceSweep", "error", err)
	}
}
