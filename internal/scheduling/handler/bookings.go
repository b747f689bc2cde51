package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "bookhaus/pkg/errors"
	httputil "bookhaus/pkg/http"
	"bookhaus/pkg/model"
)

func (h *EngineHandler) SaveBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var cand model.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		h.writeError(w, "SaveBooking", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.engine.SaveBooking(r.Context(), cand)
	if err != nil {
		h.writeError(w, "SaveBooking", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "SaveBooking", "error", err)
	}
}

func (h *EngineHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.engine.BookingByID(ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBooking", "error", err)
	}
}

func (h *EngineHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.writeError(w, "ListBookings", apperrors.InvalidInput("date query parameter is required"))
		return
	}

	bookings, err := h.engine.BookingsOn(date)
	if err != nil {
		h.writeError(w, "ListBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookings", "error", err)
	}
}

func (h *EngineHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	events, err := h.engine.CancelBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"notifications": len(events),
		"events":        events,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelBooking", "error", err)
	}
}

type completeRequest struct {
	StartReading float64 `json:"start_reading"`
	EndReading   float64 `json:"end_reading"`
}

func (h *EngineHandler) CompleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "CompleteBooking", apperrors.InvalidInput("Invalid request body"))
		return
	}

	entry, err := h.engine.CompleteBooking(r.Context(), ps.ByName("id"), req.StartReading, req.EndReading)
	if err != nil {
		h.writeError(w, "CompleteBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"ledger_entry": entry}); err != nil {
		h.log.Error("failed to write success response", "handler", "CompleteBooking", "error", err)
	}
}

type candidateRequest struct {
	Date      string `json:"date"`
	StaffHint string `json:"staff_hint,omitempty"`
	TimeHint  string `json:"time_hint,omitempty"`
}

func (h *EngineHandler) OpenCandidate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "OpenCandidate", apperrors.InvalidInput("Invalid request body"))
		return
	}

	cand, err := h.engine.OpenBookingCandidate(req.Date, req.StaffHint, req.TimeHint)
	if err != nil {
		h.writeError(w, "OpenCandidate", err)
		return
	}

	if err := httputil.WriteSuccess(w, cand); err != nil {
		h.log.Error("failed to write success response", "handler", "OpenCandidate", "error", err)
	}
}

type suggestionsRequest struct {
	Candidate  model.Candidate `json:"candidate"`
	MaxResults int             `json:"max_results,omitempty"`
}

func (h *EngineHandler) Suggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Suggestions", apperrors.InvalidInput("Invalid request body"))
		return
	}

	suggestions := h.engine.Suggest(req.Candidate, req.MaxResults)

	// Empty means "no alternatives available", not an error.
	if err := httputil.WriteSuccess(w, suggestions); err != nil {
		h.log.Error("failed to write success response", "handler", "Suggestions", "error", err)
	}
}

func (h *EngineHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}
