package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "bookhaus/pkg/errors"
	httputil "bookhaus/pkg/http"
	"bookhaus/pkg/model"
)

func (h *EngineHandler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.engine.Settings()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSettings", "error", err)
	}
}

func (h *EngineHandler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.writeError(w, "UpdateSettings", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.engine.UpdateSettings(settings); err != nil {
		h.writeError(w, "UpdateSettings", err)
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateSettings", "error", err)
	}
}

// DayPlan lists a date's scheduled bookings in start order with pickup
// locations.
func (h *EngineHandler) DayPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, err := h.engine.DayPlan(ps.ByName("date"))
	if err != nil {
		h.writeError(w, "DayPlan", err)
		return
	}

	if err := httputil.WriteSuccess(w, plan); err != nil {
		h.log.Error("failed to write success response", "handler", "DayPlan", "error", err)
	}
}

// WeekPlan lays out the week containing the given date, honoring the
// first-day-of-week setting.
func (h *EngineHandler) WeekPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	week, err := h.engine.WeekPlan(ps.ByName("date"))
	if err != nil {
		h.writeError(w, "WeekPlan", err)
		return
	}

	if err := httputil.WriteSuccess(w, week); err != nil {
		h.log.Error("failed to write success response", "handler", "WeekPlan", "error", err)
	}
}
