package precedent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/scenario"
)

func TestEvaluate_SumCappedPerTopic(t *testing.T) {
	p := NewProvider(DefaultConfig())
	ctx := context.Background()

	// article-356 cites three cases at 5.0 each; the 15 cap is exactly hit.
	c, err := p.Evaluate(ctx, "article-356", scenario.Default())
	require.NoError(t, err)
	assert.Equal(t, 15.0, c.Value)

	// article-83: 4.0 + 3.0 = 7.0 exceeds the 6 cap.
	c, err = p.Evaluate(ctx, "article-83", scenario.Default())
	require.NoError(t, err)
	assert.Equal(t, 6.0, c.Value)

	detail, ok := c.Detail.(Detail)
	require.True(t, ok)
	assert.Equal(t, 6.0, detail.Cap)
	assert.Len(t, detail.Cases, 2)
}

func TestEvaluate_NoCasesMeansZero(t *testing.T) {
	p := NewProvider(DefaultConfig())

	c, err := p.Evaluate(context.Background(), "article-82", scenario.Default())
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Value)

	detail := c.Detail.(Detail)
	assert.Equal(t, 3.0, detail.Cap) // default cap applies to unlisted topics
	assert.Empty(t, detail.Cases)
}

func TestCases_SortedByImpactDescending(t *testing.T) {
	p := NewProvider(DefaultConfig())

	cases := p.Cases("article-172")
	require.Len(t, cases, 2)
	assert.Equal(t, "Kesavananda Bharati v. State of Kerala", cases[0].Name)
	assert.GreaterOrEqual(t, cases[0].Impact, cases[1].Impact)
}

func TestEvaluate_ConfiguredCapOverridesDefault(t *testing.T) {
	p := NewProvider(Config{
		Caps:       map[string]float64{"article-356": 8},
		DefaultCap: 3,
	})

	c, err := p.Evaluate(context.Background(), "article-356", scenario.Default())
	require.NoError(t, err)
	assert.Equal(t, 8.0, c.Value)
}
