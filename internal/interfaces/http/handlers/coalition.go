package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Coalition returns the current support snapshot.
func (h *Handlers) Coalition(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.tracker.Snapshot())
}

type defectRequest struct {
	Party  string `json:"party"`
	Seats  int    `json:"seats"`
	Reason string `json:"reason"`
}

// Defect removes seats from a coalition party.
func (h *Handlers) Defect(w http.ResponseWriter, r *http.Request) {
	var req defectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Party == "" {
		h.writeError(w, r, http.StatusBadRequest, "missing_party", "party is required")
		return
	}

	ev, err := h.tracker.Defect(r.Context(), req.Party, req.Seats, req.Reason)
	if err != nil {
		h.writeError(w, r, http.StatusNotFound, "unknown_party", err.Error())
		return
	}

	resp := map[string]interface{}{"support": h.tracker.Snapshot()}
	if ev != nil {
		resp["event"] = ev
	} else {
		resp["note"] = "no seats moved"
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type realignRequest struct {
	Party          string `json:"party"`
	JoinOpposition bool   `json:"join_opposition"`
	Reason         string `json:"reason"`
}

// Realign withdraws a party from the coalition wholesale.
func (h *Handlers) Realign(w http.ResponseWriter, r *http.Request) {
	var req realignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Party == "" {
		h.writeError(w, r, http.StatusBadRequest, "missing_party", "party is required")
		return
	}

	ev, err := h.tracker.Realign(r.Context(), req.Party, req.JoinOpposition, req.Reason)
	if err != nil {
		h.writeError(w, r, http.StatusNotFound, "unknown_party", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"event":   ev,
		"support": h.tracker.Snapshot(),
	})
}

type scandalRequest struct {
	Party    string `json:"party"` // empty spreads the loss coalition-wide
	SeatLoss int    `json:"seat_loss"`
	Reason   string `json:"reason"`
}

// Scandal applies a seat loss to one party or pro-rata across the coalition.
func (h *Handlers) Scandal(w http.ResponseWriter, r *http.Request) {
	var req scandalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	ev, err := h.tracker.Scandal(r.Context(), req.Party, req.SeatLoss, req.Reason)
	if err != nil {
		h.writeError(w, r, http.StatusNotFound, "unknown_party", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"event":   ev,
		"support": h.tracker.Snapshot(),
	})
}

// CoalitionEvents returns the audit log, newest first.
func (h *Handlers) CoalitionEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events := h.tracker.Events()
	// Cap before allocating; the query value is caller-controlled.
	if limit > len(events) {
		limit = len(events)
	}
	// Stored oldest first; reverse and trim.
	out := make([]interface{}, 0, limit)
	for i := len(events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, events[i])
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(out),
		"events": out,
	})
}
