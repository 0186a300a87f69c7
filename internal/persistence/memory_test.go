package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/political"
)

func TestMemoryStore_ToggleRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveToggle(ctx, "article-83", "co_terminus", true))
	require.NoError(t, s.SaveToggle(ctx, "article-83", "co_terminus", false))
	require.NoError(t, s.SaveToggle(ctx, "article-356", "presidents_rule_procedure", true))

	got, err := s.LoadToggles(ctx)
	require.NoError(t, err)
	assert.False(t, got["article-83"]["co_terminus"]) // last write wins
	assert.True(t, got["article-356"]["presidents_rule_procedure"])
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.SaveToggle(ctx, "article-83", "co_terminus", true))

	first, err := s.LoadToggles(ctx)
	require.NoError(t, err)
	first["article-83"]["co_terminus"] = false

	second, err := s.LoadToggles(ctx)
	require.NoError(t, err)
	assert.True(t, second["article-83"]["co_terminus"])
}

func TestMemoryStore_ListEventsNewestFirstWithLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, reason := range []string{"one", "two", "three"} {
		require.NoError(t, s.AppendEvent(ctx, political.EventRecord{Reason: reason}))
	}

	got, err := s.ListEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Reason)
	assert.Equal(t, "two", got[1].Reason)

	all, err := s.ListEvents(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
