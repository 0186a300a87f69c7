package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cached evaluations travel through JSON, so a kind must decode back to
// itself or every cache read fails.
func TestKind_JSONRoundTrip(t *testing.T) {
	for _, k := range AllKinds() {
		b, err := json.Marshal(Contribution{Kind: k, Value: 1})
		require.NoError(t, err)

		var c Contribution
		require.NoError(t, json.Unmarshal(b, &c))
		assert.Equal(t, k, c.Kind)
	}
}

func TestKind_UnmarshalRejectsUnknownName(t *testing.T) {
	var c Contribution
	err := json.Unmarshal([]byte(`{"kind":"astrology"}`), &c)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("monte_carlo")
	require.NoError(t, err)
	assert.Equal(t, MonteCarlo, k)

	_, err = ParseKind("nope")
	assert.Error(t, err)
}
