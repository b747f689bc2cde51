package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"bookhaus/pkg/config"
	apperrors "bookhaus/pkg/errors"
	httputil "bookhaus/pkg/http"
	"bookhaus/pkg/model"
)

func (h *EngineHandler) ListWaitingEntries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries := h.engine.WaitingList()

	// Optional pagination; the list is small but clients may poll it.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit = config.NormalizePaginationLimit(limit)
	if offset < 0 {
		offset = 0
	}

	total := len(entries)
	if offset > total {
		offset = total
	}
	pageEnd := offset + limit
	if pageEnd > total {
		pageEnd = total
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"entries": entries[offset:pageEnd],
		"total":   total,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListWaitingEntries", "error", err)
	}
}

func (h *EngineHandler) AddWaitingEntry(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var entry model.WaitingListEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.writeError(w, "AddWaitingEntry", apperrors.InvalidInput("Invalid request body"))
		return
	}

	created, err := h.engine.AddWaitingEntry(entry)
	if err != nil {
		h.writeError(w, "AddWaitingEntry", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "AddWaitingEntry", "error", err)
	}
}
