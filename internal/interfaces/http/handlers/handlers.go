package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ballotworks/syncrun/internal/engine"
	"github.com/ballotworks/syncrun/internal/explorer"
	"github.com/ballotworks/syncrun/internal/montecarlo"
	"github.com/ballotworks/syncrun/internal/political"
	"github.com/ballotworks/syncrun/internal/precedent"
	"github.com/ballotworks/syncrun/internal/rank"
	"github.com/ballotworks/syncrun/internal/scenario"
)

// Handlers manages all HTTP endpoint handlers. Every dependency is injected;
// the handlers hold no state of their own.
type Handlers struct {
	engine    *engine.Engine
	store     *explorer.Store
	tracker   *political.Tracker
	mc        *montecarlo.Provider
	precedent *precedent.Provider
	ranker    *rank.Ranker
	log       zerolog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(eng *engine.Engine, store *explorer.Store, tracker *political.Tracker, mc *montecarlo.Provider, prec *precedent.Provider, ranker *rank.Ranker, log zerolog.Logger) *Handlers {
	return &Handlers{
		engine:    eng,
		store:     store,
		tracker:   tracker,
		mc:        mc,
		precedent: prec,
		ranker:    ranker,
		log:       log,
	}
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// writeJSON writes JSON response with proper error handling.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

// writeError writes standardized error response.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID, _ := r.Context().Value("request_id").(string)
	if requestID == "" {
		requestID = "unknown"
	}

	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	})
}

// scenarioFromQuery builds a scenario from query parameters, falling back to
// defaults for anything absent. Out-of-range values are clamped by
// Normalize, never rejected.
func (h *Handlers) scenarioFromQuery(r *http.Request) (scenario.Input, []string) {
	scn := scenario.Default()
	q := r.URL.Query()
	if v := q.Get("target_year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			scn.TargetYear = n
		}
	}
	if v := q.Get("supply_ratio"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			scn.SupplyRatio = f
		}
	}
	if v := q.Get("personnel_ratio"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			scn.PersonnelRatio = f
		}
	}
	if v := q.Get("seed"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			scn.Seed = n
		}
	}
	return scn.Normalize()
}

// Health reports liveness plus a cheap snapshot of the tracked coalition.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"timestamp":       time.Now().UTC(),
		"topics":          len(h.engine.Registry().AllIDs()),
		"coalition_seats": h.tracker.CoalitionSeats(),
	})
}

// NotFound handles 404 responses.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"The requested endpoint does not exist")
}
