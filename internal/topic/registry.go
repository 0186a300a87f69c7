package topic

import (
	"errors"
	"fmt"

	"github.com/ballotworks/syncrun/internal/signal"
)

// ErrUnknownTopic is returned for topic ids outside the registry. It is the
// only topic-lookup failure mode and is surfaced as a client error.
var ErrUnknownTopic = errors.New("unknown topic")

// Registry is the static declarative mapping from topic id to definition.
// Definitions are built once at construction and never mutated.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry builds the registry from the fixed article table.
func NewRegistry() *Registry {
	return newRegistry(defaultDefinitions())
}

// NewRegistryFrom builds a registry from explicit definitions, preserving
// declaration order.
func NewRegistryFrom(defs ...Definition) *Registry {
	return newRegistry(defs)
}

func newRegistry(defs []Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r
}

// Get returns the definition for id or ErrUnknownTopic.
func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownTopic, id)
	}
	return d, nil
}

// AllIDs returns topic ids in stable declaration order.
func (r *Registry) AllIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// defaultDefinitions is the fixed table of synchronization-reform articles.
// Base risks and applicable signal sets follow the committee assessment the
// engine models.
func defaultDefinitions() []Definition {
	return []Definition{
		{
			ID:          "article-82",
			Name:        "Article 82: Readjustment After Census",
			Description: "Governs reallocation of lower-house seats after a census. No synchronization provision with state assemblies.",
			BaseRisk:    25.0,
			Signals:     []signal.Kind{signal.Explorer, signal.Timeline},
		},
		{
			ID:          "article-83",
			Name:        "Article 83(2): Duration of the Lower House",
			Description: "House term expires May 2029, independent of state assemblies. A co-terminus provision is needed.",
			BaseRisk:    20.0,
			Signals: []signal.Kind{
				signal.Debate, signal.Precedent, signal.MonteCarlo,
				signal.Explorer, signal.Timeline,
			},
		},
		{
			ID:          "article-85",
			Name:        "Article 85: Presidential Dissolution",
			Description: "The President can dissolve the lower house with no provision for simultaneous state dissolution.",
			BaseRisk:    15.0,
			Signals:     []signal.Kind{signal.Explorer, signal.Timeline},
		},
		{
			ID:          "article-172",
			Name:        "Article 172(1): Duration of State Legislatures",
			Description: "28 states with different expiry dates produce two to three election rounds per year.",
			BaseRisk:    25.0,
			Signals: []signal.Kind{
				signal.Debate, signal.Precedent, signal.Explorer, signal.Timeline,
			},
		},
		{
			ID:          "article-174",
			Name:        "Article 174: Governor Dissolution Powers",
			Description: "A governor can dissolve an assembly at any time, breaking the synchronized cycle.",
			BaseRisk:    20.0,
			Signals:     []signal.Kind{signal.Explorer, signal.Timeline},
		},
		{
			ID:          "article-356",
			Name:        "Article 356: President's Rule",
			Description: "No procedure for elections in states under President's Rule during a synchronized cycle. Primary blocker.",
			BaseRisk:    35.0,
			Signals: []signal.Kind{
				signal.Debate, signal.Precedent, signal.MonteCarlo,
				signal.Explorer, signal.Political, signal.Timeline,
			},
		},
	}
}

// Recommendation returns the per-topic remediation line used by the ranker
// and the HTTP layer.
func Recommendation(id string) string {
	recs := map[string]string{
		"article-82":  "Define a census synchronization mechanism so seat reallocation cannot disrupt the unified cycle.",
		"article-83":  "Amend to establish a co-terminus provision linking lower-house and state assembly terms.",
		"article-85":  "Create a constitutional protocol for simultaneous dissolution of the lower house and state assemblies.",
		"article-172": "Synchronize all 28 state assembly terms through a phased approach or one-time adjustment.",
		"article-174": "Restrict gubernatorial dissolution powers during the synchronized cycle through constitutional safeguards.",
		"article-356": "Define an explicit procedure for conducting elections in states under President's Rule. Without this the reform cannot proceed.",
	}
	if rec, ok := recs[id]; ok {
		return rec
	}
	return "Address constitutional gaps before implementing the synchronized cycle."
}
