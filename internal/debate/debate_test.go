package debate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/scenario"
)

type fakeBackend struct {
	reply string
	err   error
	calls int
}

func (f *fakeBackend) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply + ": " + prompt, nil
}

func TestEvaluate_NilClientIsDeterministicAndDegraded(t *testing.T) {
	p := NewProvider(DefaultConfig(), nil)

	c, err := p.Evaluate(context.Background(), "article-356", scenario.Default())
	require.NoError(t, err)

	// vulnerability 0.85 x weight 40
	assert.Equal(t, 34.0, c.Value)
	assert.True(t, c.Degraded)

	detail, ok := c.Detail.(Detail)
	require.True(t, ok)
	assert.Equal(t, 0.85, detail.Vulnerability)
	assert.Len(t, detail.Transcript, 3)
	assert.NotEmpty(t, detail.Government)
	assert.NotEmpty(t, detail.Court)
}

func TestEvaluate_DefaultsForUnlistedTopic(t *testing.T) {
	p := NewProvider(DefaultConfig(), nil)

	c, err := p.Evaluate(context.Background(), "article-82", scenario.Default())
	require.NoError(t, err)

	// default vulnerability 0.65 x default weight 25
	assert.InDelta(t, 16.25, c.Value, 1e-9)
}

func TestEvaluate_BackendEnrichesProseOnly(t *testing.T) {
	backend := &fakeBackend{reply: "generated"}
	client := NewClient(backend, DefaultClientConfig())
	p := NewProvider(DefaultConfig(), client)

	c, err := p.Evaluate(context.Background(), "article-356", scenario.Default())
	require.NoError(t, err)

	// The numeric contribution is identical with or without the backend.
	assert.Equal(t, 34.0, c.Value)
	assert.False(t, c.Degraded)
	assert.Equal(t, 2, backend.calls)

	detail := c.Detail.(Detail)
	assert.Contains(t, detail.Government, "generated")
	assert.Contains(t, detail.Court, "generated")
}

func TestEvaluate_FailingBackendFallsBack(t *testing.T) {
	backend := &fakeBackend{err: fmt.Errorf("backend down")}
	client := NewClient(backend, DefaultClientConfig())
	p := NewProvider(DefaultConfig(), client)

	c, err := p.Evaluate(context.Background(), "article-172", scenario.Default())
	require.NoError(t, err)

	assert.True(t, c.Degraded)
	assert.InDelta(t, 0.72*25, c.Value, 1e-9)

	detail := c.Detail.(Detail)
	assert.NotContains(t, detail.Government, "generated")
}

func TestClient_NilBackendFailsFast(t *testing.T) {
	client := NewClient(nil, DefaultClientConfig())

	_, err := client.Generate(context.Background(), "anything")
	assert.Error(t, err)
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	backend := &fakeBackend{err: fmt.Errorf("backend down")}
	client := NewClient(backend, DefaultClientConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Generate(ctx, "warm-up prompt")
		require.Error(t, err)
	}
	callsBefore := backend.calls

	// The open breaker rejects without touching the backend.
	_, err := client.Generate(ctx, "warm-up prompt")
	require.Error(t, err)
	assert.Equal(t, callsBefore, backend.calls)
}
