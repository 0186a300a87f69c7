package signal

import (
	"context"
	"fmt"

	"github.com/ballotworks/syncrun/internal/scenario"
)

// Kind identifies one of the closed set of risk sub-signals. The set is
// fixed at compile time; the engine refuses to start with an unregistered
// provider or an unknown kind.
type Kind int

const (
	Debate Kind = iota
	Precedent
	MonteCarlo
	Explorer
	Political
	Timeline

	numKinds
)

// AllKinds returns every signal kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the stable wire name for the kind.
func (k Kind) String() string {
	switch k {
	case Debate:
		return "debate"
	case Precedent:
		return "precedent"
	case MonteCarlo:
		return "monte_carlo"
	case Explorer:
		return "explorer"
	case Political:
		return "political"
	case Timeline:
		return "timeline"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so kinds serialize by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for the reverse trip.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k := Kind(0); k < numKinds; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown signal kind: %q", s)
}

// Contribution is one signal's effect on a topic's aggregate risk. Value may
// be negative for risk-reducing inputs. Detail carries the provider's
// explanatory payload and is never mutated after the provider returns it.
type Contribution struct {
	Kind     Kind        `json:"kind"`
	Value    float64     `json:"value"`
	Degraded bool        `json:"degraded,omitempty"`
	Detail   interface{} `json:"detail,omitempty"`
}

// Provider computes one Contribution for a topic under the given scenario.
// Implementations are side-effect-free except where the explorer store and
// the coalition event log intentionally model state. A provider must never
// fail because an optional enrichment source is down; it falls back to a
// deterministic estimate and sets Degraded instead.
type Provider interface {
	Kind() Kind
	Evaluate(ctx context.Context, topicID string, scn scenario.Input) (Contribution, error)
}
