package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecogo/internal/clock"
	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
)

func TestSessions_GetOpensOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.sessions.Get(ctx, 1)
	require.NoError(t, err)
	b, err := env.sessions.Get(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := env.sessions.Get(ctx, 2)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, c.UserID())
}

// gatedUserData holds Load of one user until release is closed.
type gatedUserData struct {
	*memUserData
	gated   int
	entered chan struct{}
	release chan struct{}
	loads   atomic.Int32
}

func (g *gatedUserData) Load(ctx context.Context, userID int) (models.UserData, error) {
	if userID == g.gated {
		if g.loads.Add(1) == 1 {
			close(g.entered)
		}
		<-g.release
	}
	return g.memUserData.Load(ctx, userID)
}

func TestSessions_SlowLoadDoesNotBlockOtherUsers(t *testing.T) {
	store := &gatedUserData{
		memUserData: newMemUserData(),
		gated:       1,
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	cfg := lifecycle.DefaultConfig()
	cfg.TickInterval = 0
	s := NewSessions(store, nil, nil, clock.NewFake(epoch), nil, cfg)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	ctx := context.Background()

	const waiters = 4
	got := make([]*lifecycle.Manager, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := s.Get(ctx, 1)
			assert.NoError(t, err)
			got[i] = m
		}()
	}
	<-store.entered

	// user 1 is stuck in Load; user 2 and the simulator's walk must not wait for it
	done := make(chan struct{})
	go func() {
		defer close(done)
		m, err := s.Get(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, 2, m.UserID())
		s.Each(func(*lifecycle.Manager) {})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Get for another user blocked behind a slow load")
	}

	close(store.release)
	wg.Wait()
	for _, m := range got {
		require.NotNil(t, m)
		assert.Same(t, got[0], m)
	}
	assert.Equal(t, int32(1), store.loads.Load())
}

func TestSessions_ReconcileAllFinalizesOverdue(t *testing.T) {
	env := newTestEnv(t)
	env.store.put(5, models.UserData{
		ActiveAppliances: []models.ActiveAppliance{{
			ID:              "a1",
			Name:            "Geyser",
			PowerWatts:      2000,
			StartTime:       epoch.Add(-2 * time.Hour),
			ScheduledEnd:    epoch.Add(-time.Hour),
			DurationMinutes: 60,
			State:           models.StateRunning,
		}},
	})
	env.store.put(6, models.UserData{})

	n, err := env.sessions.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	saved := env.store.get(5)
	assert.Empty(t, saved.ActiveAppliances)
	require.Len(t, saved.UsageRecords, 1)
	assert.Equal(t, models.TerminationAutoShutdown, saved.UsageRecords[0].Termination)
	require.Len(t, saved.PersistentAlerts, 1)

	require.Eventually(t, func() bool {
		u, a := env.pub.counts()
		return u == 1 && a == 1
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(env.events.types()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{models.EventTypeAutoShutdown}, env.events.types())
}

func TestSessions_ForwardsAuditEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m, err := env.sessions.Get(ctx, 1)
	require.NoError(t, err)

	a, err := m.Start(ctx, lifecycle.StartParams{Name: "Iron", PowerWatts: 1000, Minutes: 10})
	require.NoError(t, err)
	_, err = m.UpdatePower(a.ID, 900)
	require.NoError(t, err)
	_, err = m.ForceStop(ctx, a.ID)
	require.NoError(t, err)

	want := []string{models.EventTypeStart, models.EventTypeForceStop}
	require.Eventually(t, func() bool {
		return len(env.events.types()) == len(want)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, env.events.types())

	evs, _ := env.events.List(ctx, 1, time.Time{}, time.Time{}, "")
	assert.Equal(t, 1, evs[0].UserID)
	meta, ok := evs[1].Metadata.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, a.ID, meta["appliance_id"])

	require.Eventually(t, func() bool {
		u, _ := env.pub.counts()
		return u == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSessions_CloseRejectsFurtherUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.sessions.Get(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, env.sessions.Close(ctx))
	_, err = env.sessions.Get(ctx, 1)
	assert.ErrorIs(t, err, lifecycle.ErrClosed)
}

func TestAuditEvent_SkipsTicks(t *testing.T) {
	a := models.ActiveAppliance{ID: "x", Name: "Fan"}
	_, ok := auditEvent(lifecycle.Event{Type: lifecycle.EventTick, Appliance: &a})
	assert.False(t, ok)
	_, ok = auditEvent(lifecycle.Event{Type: lifecycle.EventPowerChanged, Appliance: &a})
	assert.False(t, ok)

	rec := models.UsageRecord{Name: "Fan", Termination: models.TerminationManual}
	out, ok := auditEvent(lifecycle.Event{Type: lifecycle.EventFinalized, Appliance: &a, Record: &rec})
	require.True(t, ok)
	assert.Equal(t, models.EventTypeShutdown, out.Type)
}
