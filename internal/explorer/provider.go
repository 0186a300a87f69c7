package explorer

import (
	"context"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
)

// Provider is the what-if sub-signal: it reads the toggle store and reports
// the summed impact of the topic's current toggle states.
type Provider struct {
	store *Store
}

// NewProvider wraps a toggle store as a contribution provider.
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Kind() signal.Kind { return signal.Explorer }

// Evaluate reports the current toggle impact for the topic. The store read
// is serialized against concurrent Apply calls, so the value always reflects
// a fully applied state.
func (p *Provider) Evaluate(ctx context.Context, topicID string, _ scenario.Input) (signal.Contribution, error) {
	return signal.Contribution{
		Kind:   signal.Explorer,
		Value:  p.store.CurrentImpact(topicID),
		Detail: p.store.Toggles(topicID),
	}, nil
}
