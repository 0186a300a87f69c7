package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ballotworks/syncrun/internal/explorer"
	"github.com/ballotworks/syncrun/internal/topic"
)

// Topics evaluates every registered topic under the query scenario and
// returns them in priority order.
func (h *Handlers) Topics(w http.ResponseWriter, r *http.Request) {
	scn, warnings := h.scenarioFromQuery(r)

	topics, err := h.engine.EvaluateAll(r.Context(), scn)
	if err != nil {
		h.log.Error().Err(err).Msg("evaluate all topics")
		h.writeError(w, r, http.StatusInternalServerError, "evaluation_failed", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenario":  scn,
		"warnings":  warnings,
		"count":     len(topics),
		"topics":    topics,
		"timestamp": time.Now().UTC(),
	})
}

// Topic evaluates a single topic, including its toggle states and cited
// precedents.
func (h *Handlers) Topic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	scn, warnings := h.scenarioFromQuery(r)

	t, err := h.engine.EvaluateTopic(r.Context(), id, scn)
	if err != nil {
		if errors.Is(err, topic.ErrUnknownTopic) {
			h.writeError(w, r, http.StatusNotFound, "unknown_topic", "no such topic: "+id)
			return
		}
		h.log.Error().Err(err).Str("topic", id).Msg("evaluate topic")
		h.writeError(w, r, http.StatusInternalServerError, "evaluation_failed", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenario":   scn,
		"warnings":   warnings,
		"topic":      t,
		"toggles":    h.store.Toggles(id),
		"precedents": h.precedent.Cases(id),
	})
}

// Toggles lists the explorer toggles for one topic.
func (h *Handlers) Toggles(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.engine.Registry().Get(id); err != nil {
		h.writeError(w, r, http.StatusNotFound, "unknown_topic", "no such topic: "+id)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic_id": id,
		"toggles":  h.store.Toggles(id),
		"impact":   h.store.CurrentImpact(id),
	})
}

type applyToggleRequest struct {
	State bool `json:"state"`
}

// ApplyToggle flips one what-if toggle and re-evaluates the topic so the
// caller sees the new score immediately.
func (h *Handlers) ApplyToggle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	topicID, toggleID := vars["id"], vars["toggle_id"]

	var req applyToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body", "body must be {\"state\": bool}")
		return
	}

	delta, err := h.store.Apply(r.Context(), topicID, toggleID, req.State)
	if err != nil {
		if errors.Is(err, explorer.ErrUnknownToggle) {
			h.writeError(w, r, http.StatusNotFound, "unknown_toggle",
				"no toggle "+toggleID+" on topic "+topicID)
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, "toggle_failed", err.Error())
		return
	}

	scn, _ := h.scenarioFromQuery(r)
	t, err := h.engine.EvaluateTopic(r.Context(), topicID, scn)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "evaluation_failed", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic_id":   topicID,
		"toggle_id":  toggleID,
		"state":      req.State,
		"risk_delta": delta,
		"topic":      t,
		"toggles":    h.store.Toggles(topicID),
	})
}

// Ranking returns the priority ordering only, without per-signal detail.
func (h *Handlers) Ranking(w http.ResponseWriter, r *http.Request) {
	scn, _ := h.scenarioFromQuery(r)

	topics, err := h.engine.EvaluateAll(r.Context(), scn)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "evaluation_failed", err.Error())
		return
	}

	type row struct {
		Rank           int     `json:"rank"`
		TopicID        string  `json:"topic_id"`
		Name           string  `json:"name"`
		FinalRisk      float64 `json:"final_risk"`
		ImpactWeight   float64 `json:"impact_weight"`
		PriorityScore  float64 `json:"priority_score"`
		Status         string  `json:"status"`
		Recommendation string  `json:"recommendation"`
	}
	rows := make([]row, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, row{
			Rank:           t.PriorityRank,
			TopicID:        t.ID,
			Name:           t.Name,
			FinalRisk:      t.FinalRisk,
			ImpactWeight:   h.ranker.ImpactWeight(t.ID),
			PriorityScore:  t.PriorityScore,
			Status:         string(t.Status),
			Recommendation: t.Recommendation,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenario": scn,
		"ranking":  rows,
	})
}

// Simulation runs the per-topic uncertainty model on demand.
func (h *Handlers) Simulation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.engine.Registry().Get(id); err != nil {
		h.writeError(w, r, http.StatusNotFound, "unknown_topic", "no such topic: "+id)
		return
	}

	seed := int64(42)
	if v := r.URL.Query().Get("seed"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic_id": id,
		"seed":     seed,
		"result":   h.mc.Run(id, seed),
	})
}

// Dashboard reports the cross-cutting readiness view for a scenario.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	scn, _ := h.scenarioFromQuery(r)
	h.writeJSON(w, http.StatusOK, h.engine.GetDashboard(scn))
}
