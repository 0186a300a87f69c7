package political

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/scenario"
)

func fixedClock() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func newTestTracker() *Tracker {
	t := NewTracker(DefaultComposition(), nil, nil)
	t.SetClock(fixedClock)
	return t
}

func totalSeats(t *Tracker) int {
	s := t.Snapshot()
	return s.TotalSeats
}

func TestSnapshot_DefaultComposition(t *testing.T) {
	tr := newTestTracker()
	s := tr.Snapshot()

	assert.Equal(t, 293, s.CoalitionSeats)
	assert.Equal(t, 234, s.OppositionSeats)
	assert.Equal(t, 0, s.UnalignedSeats)
	assert.Equal(t, 527, s.TotalSeats)

	assert.True(t, s.HasSimpleMajority)
	assert.Equal(t, 0, s.SimpleMajorityGap)
	assert.False(t, s.CanAmend)
	assert.Equal(t, 69, s.AmendmentGap)

	// Surplus of 21 seats over the 272 majority.
	assert.Equal(t, StateVulnerable, s.State)

	// Only the BJP's exit would sink the majority outright.
	assert.Equal(t, []string{"BJP"}, s.CriticalPartners)
}

func TestDefect_ClampsToPartySeats(t *testing.T) {
	tr := newTestTracker()
	before := totalSeats(tr)

	ev, err := tr.Defect(context.Background(), "TDP", 99, "alliance dispute")
	require.NoError(t, err)
	require.NotNil(t, ev)

	// TDP only holds 16 seats; the defection clamps there.
	assert.Equal(t, -16, ev.SeatDelta)
	assert.Equal(t, EventDefection, ev.Kind)
	assert.Equal(t, fixedClock(), ev.Timestamp)
	assert.NotEmpty(t, ev.ID)

	s := tr.Snapshot()
	assert.Equal(t, 277, s.CoalitionSeats)
	assert.Equal(t, 16, s.UnalignedSeats)
	assert.Equal(t, before, s.TotalSeats)
}

func TestDefect_ZeroSeatsIsNoOp(t *testing.T) {
	tr := newTestTracker()

	ev, err := tr.Defect(context.Background(), "TDP", 0, "nothing happened")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Empty(t, tr.Events())
}

func TestDefect_UnknownParty(t *testing.T) {
	tr := newTestTracker()

	_, err := tr.Defect(context.Background(), "INC", 5, "not a coalition member")
	assert.Error(t, err)
}

func TestDefect_RepeatedDrainsParty(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()

	_, err := tr.Defect(ctx, "JD(U)", 10, "first wave")
	require.NoError(t, err)

	ev, err := tr.Defect(ctx, "JD(U)", 10, "second wave")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, -2, ev.SeatDelta)

	// A third defection finds no seats left and is a no-op.
	ev, err = tr.Defect(ctx, "JD(U)", 10, "third wave")
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestRealign_ToOpposition(t *testing.T) {
	tr := newTestTracker()
	before := totalSeats(tr)

	ev, err := tr.Realign(context.Background(), "JD(U)", true, "changed sides")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, EventWithdrawal, ev.Kind)
	assert.Equal(t, -12, ev.SeatDelta)

	s := tr.Snapshot()
	assert.Equal(t, 281, s.CoalitionSeats)
	assert.Equal(t, 246, s.OppositionSeats)
	assert.Equal(t, before, s.TotalSeats)
	assert.Equal(t, 12, s.Opposition["JD(U)"])
}

func TestRealign_WithdrawWithoutJoining(t *testing.T) {
	tr := newTestTracker()
	before := totalSeats(tr)

	_, err := tr.Realign(context.Background(), "TDP", false, "sits out")
	require.NoError(t, err)

	s := tr.Snapshot()
	assert.Equal(t, 277, s.CoalitionSeats)
	assert.Equal(t, 16, s.UnalignedSeats)
	assert.Equal(t, before, s.TotalSeats)
	assert.NotContains(t, s.Coalition, "TDP")
}

func TestScandal_SingleParty(t *testing.T) {
	tr := newTestTracker()
	before := totalSeats(tr)

	ev, err := tr.Scandal(context.Background(), "Shiv Sena (Shinde)", 20, "corruption charges")
	require.NoError(t, err)
	assert.Equal(t, EventScandal, ev.Kind)
	assert.Equal(t, -7, ev.SeatDelta) // clamped to the party's 7 seats

	assert.Equal(t, before, totalSeats(tr))
}

func TestScandal_ProRataAcrossCoalition(t *testing.T) {
	tr := newTestTracker()
	before := totalSeats(tr)

	ev, err := tr.Scandal(context.Background(), "", 20, "government-wide scandal")
	require.NoError(t, err)
	assert.Equal(t, "COALITION", ev.Party)
	// Pro-rata integer truncation may remove slightly fewer than requested.
	assert.GreaterOrEqual(t, -ev.SeatDelta, 15)
	assert.LessOrEqual(t, -ev.SeatDelta, 20)

	s := tr.Snapshot()
	assert.Equal(t, before, s.TotalSeats)
	assert.Equal(t, -ev.SeatDelta, s.UnalignedSeats)
}

func TestScandal_DrainedCoalitionIsNoOp(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()
	before := totalSeats(tr)

	for _, name := range []string{"BJP", "TDP", "JD(U)", "Shiv Sena (Shinde)", "Other allies"} {
		_, err := tr.Defect(ctx, name, 999, "mass exodus")
		require.NoError(t, err)
	}
	require.Equal(t, 0, tr.Snapshot().CoalitionSeats)

	ev, err := tr.Scandal(ctx, "", 5, "scandal with nothing left to lose")
	require.NoError(t, err)
	assert.Equal(t, 0, ev.SeatDelta)

	s := tr.Snapshot()
	assert.Equal(t, 0, s.CoalitionSeats)
	assert.Equal(t, before, s.TotalSeats)
	for name, seats := range s.Coalition {
		assert.GreaterOrEqual(t, seats, 0, name)
	}
}

func TestSnapshot_ExactSimpleMajority(t *testing.T) {
	tr := NewTracker(Composition{
		Coalition: []Party{
			{Name: "Bloc A", Seats: 250, Leverage: 0.5},
			{Name: "Bloc B", Seats: 22, Leverage: 0.5},
		},
		Opposition: []Party{
			{Name: "Opposition", Seats: 271, Leverage: 0.5},
		},
	}, nil, nil)

	s := tr.Snapshot()
	assert.Equal(t, 272, s.CoalitionSeats)
	assert.True(t, s.HasSimpleMajority)
	assert.Equal(t, 0, s.SimpleMajorityGap)
	assert.Equal(t, StateCritical, s.State)
}

func TestStateBoundaries(t *testing.T) {
	assert.Equal(t, StateStable, stateFor(30))
	assert.Equal(t, StateVulnerable, stateFor(29))
	assert.Equal(t, StateVulnerable, stateFor(5))
	assert.Equal(t, StateCritical, stateFor(4))
	assert.Equal(t, StateCritical, stateFor(0))
	assert.Equal(t, StateFractured, stateFor(-1))
}

func TestStability_DefaultComposition(t *testing.T) {
	tr := newTestTracker()

	// surplus 21/100 x 0.4 + dependency 0.5 x 0.4 (BJP holds >50%) +
	// (1 - 0.78 x 0.3) x 0.2
	assert.InDelta(t, 0.44, tr.Snapshot().Stability, 0.005)
}

func TestStability_DropsWithSeats(t *testing.T) {
	tr := newTestTracker()
	before := tr.Snapshot().Stability

	_, err := tr.Realign(context.Background(), "TDP", true, "exit")
	require.NoError(t, err)

	assert.Less(t, tr.Snapshot().Stability, before)
}

func TestEvents_AppendOrderAndNotification(t *testing.T) {
	var notified []EventRecord
	tr := NewTracker(DefaultComposition(), nil, func(ev EventRecord) {
		notified = append(notified, ev)
	})
	tr.SetClock(fixedClock)
	ctx := context.Background()

	_, err := tr.Defect(ctx, "TDP", 4, "one")
	require.NoError(t, err)
	_, err = tr.Scandal(ctx, "BJP", 2, "two")
	require.NoError(t, err)

	events := tr.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventDefection, events[0].Kind)
	assert.Equal(t, EventScandal, events[1].Kind)
	assert.Len(t, notified, 2)
}

func TestProvider_ContributionWithinBounds(t *testing.T) {
	tr := newTestTracker()
	p := NewProvider(DefaultConfig(), tr)

	c, err := p.Evaluate(context.Background(), "article-356", scenario.Default())
	require.NoError(t, err)

	// Amendment gap 69 -> 69/14.48 = 4.77; instability (1-0.44)x10 = 5.6.
	assert.InDelta(t, 10.37, c.Value, 0.1)
	assert.LessOrEqual(t, c.Value, DefaultConfig().MaxContribution)

	detail, ok := c.Detail.(Support)
	require.True(t, ok)
	assert.Equal(t, 69, detail.AmendmentGap)
}

func TestProvider_WorseCoalitionRaisesContribution(t *testing.T) {
	tr := newTestTracker()
	p := NewProvider(DefaultConfig(), tr)
	ctx := context.Background()

	before, err := p.Evaluate(ctx, "article-356", scenario.Default())
	require.NoError(t, err)

	_, err = tr.Realign(ctx, "TDP", true, "walkout")
	require.NoError(t, err)

	after, err := p.Evaluate(ctx, "article-356", scenario.Default())
	require.NoError(t, err)
	assert.Greater(t, after.Value, before.Value)
}
