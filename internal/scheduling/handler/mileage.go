package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "bookhaus/pkg/http"
	"bookhaus/pkg/model"
)

func ledgerFilterFromQuery(r *http.Request) model.LedgerFilter {
	q := r.URL.Query()
	return model.LedgerFilter{
		VehicleID: q.Get("vehicle_id"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}
}

func (h *EngineHandler) TotalDistance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	total := h.engine.TotalDistance(ledgerFilterFromQuery(r))

	if err := httputil.WriteSuccess(w, map[string]any{"total_distance": total}); err != nil {
		h.log.Error("failed to write success response", "handler", "TotalDistance", "error", err)
	}
}

func (h *EngineHandler) MileageReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	report := h.engine.MileageReport(ledgerFilterFromQuery(r))

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "MileageReport", "error", err)
	}
}

func (h *EngineHandler) SuggestedReading(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reading, err := h.engine.SuggestedStartReading(ps.ByName("id"))
	if err != nil {
		h.writeError(w, "SuggestedReading", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"suggested_start_reading": reading}); err != nil {
		h.log.Error("failed to write success response", "handler", "SuggestedReading", "error", err)
	}
}
