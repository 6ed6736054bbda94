package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ecogo/internal/clock"
	"ecogo/internal/logger"
	"ecogo/internal/models"
	"ecogo/internal/repository/repositorymock"
)

func persisted(id, name string, watts float64, start, end time.Time, state models.PromptState) models.ActiveAppliance {
	return models.ActiveAppliance{
		ID:              id,
		Name:            name,
		PowerWatts:      watts,
		NominalWatts:    watts,
		StartTime:       start,
		ScheduledEnd:    end,
		DurationMinutes: int(end.Sub(start) / time.Minute),
		State:           state,
	}
}

func TestReconcile_OverdueApplianceFinalizesAtScheduledEnd(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := newMemStore()
	m := NewManager(7, store, clk, logger.NewNop(), deadlineOnly())
	events, cancel := m.Subscribe(8)
	defer cancel()

	overdue := persisted("a1", "Heater", 1000, epoch.Add(-3*time.Hour), epoch.Add(-time.Hour), models.StatePrompted)
	require.NoError(t, m.Reconcile(context.Background(), models.UserData{
		ActiveAppliances: []models.ActiveAppliance{overdue},
	}))

	assert.Empty(t, m.ListActive())
	assert.Zero(t, clk.Pending())
	assert.Equal(t, 1, store.saveCount())

	snap := m.Snapshot()
	require.Len(t, snap.UsageRecords, 1)
	rec := snap.UsageRecords[0]
	assert.Equal(t, "a1", rec.ID)
	assert.Equal(t, models.TerminationAutoShutdown, rec.Termination)
	assert.Equal(t, overdue.ScheduledEnd, rec.EndTime)
	assert.InDelta(t, 2.0, rec.DurationHours, 1e-9)
	assert.InDelta(t, 2.0, rec.EnergyKwh, 1e-9)

	require.Len(t, snap.PersistentAlerts, 1)
	assert.Equal(t, epoch, snap.PersistentAlerts[0].CreatedAt)
	assert.Equal(t, epoch.Add(12*time.Hour), snap.PersistentAlerts[0].ExpiresAt)

	finalized := ofType(drain(events), EventFinalized)
	require.Len(t, finalized, 1)
	assert.Equal(t, 7, finalized[0].UserID)
}

func TestReconcile_DeadlineExactlyNowIsOverdue(t *testing.T) {
	clk := clock.NewFake(epoch)
	m := NewManager(1, newMemStore(), clk, logger.NewNop(), deadlineOnly())

	a := persisted("a1", "Fan", 60, epoch.Add(-time.Hour), epoch, models.StateRunning)
	require.NoError(t, m.Reconcile(context.Background(), models.UserData{ActiveAppliances: []models.ActiveAppliance{a}}))

	assert.Empty(t, m.ListActive())
	assert.Len(t, m.Snapshot().UsageRecords, 1)
}

func TestReconcile_ResumesRunningAndDropsPrompt(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := newMemStore()
	m := NewManager(1, store, clk, logger.NewNop(), deadlineOnly())

	promptedAt := epoch.Add(-time.Minute)
	saved := persisted("a1", "Washer", 500, epoch.Add(-50*time.Minute), epoch.Add(10*time.Minute), models.StatePrompted)
	saved.PromptedAt = &promptedAt
	saved.RemainingSeconds = 99999 // stale, must be recomputed

	require.NoError(t, m.Reconcile(context.Background(), models.UserData{ActiveAppliances: []models.ActiveAppliance{saved}}))

	list := m.ListActive()
	require.Len(t, list, 1)
	assert.Equal(t, models.StateRunning, list[0].State)
	assert.Nil(t, list[0].PromptedAt)
	assert.Equal(t, int64(600), list[0].RemainingSeconds)
	assert.Equal(t, models.StateRunning, store.last(1).ActiveAppliances[0].State)
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(10 * time.Minute)
	assert.Equal(t, models.StatePrompted, m.ListActive()[0].State)
	clk.Advance(2 * time.Minute)
	assert.Empty(t, m.ListActive())
	assert.Len(t, m.Alerts(), 1)
}

func TestReconcile_MixedSetPreservesOrderAndSkipsDuplicates(t *testing.T) {
	clk := clock.NewFake(epoch)
	m := NewManager(1, newMemStore(), clk, logger.NewNop(), deadlineOnly())

	data := models.UserData{ActiveAppliances: []models.ActiveAppliance{
		persisted("b", "Second", 100, epoch.Add(-time.Hour), epoch.Add(time.Hour), models.StateRunning),
		persisted("x", "Overdue", 100, epoch.Add(-2*time.Hour), epoch.Add(-time.Minute), models.StateRunning),
		persisted("a", "Third", 100, epoch.Add(-time.Hour), epoch.Add(2*time.Hour), models.StateRunning),
		persisted("b", "Dup", 100, epoch.Add(-time.Hour), epoch.Add(time.Hour), models.StateRunning),
	}}
	require.NoError(t, m.Reconcile(context.Background(), data))

	list := m.ListActive()
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)
	assert.Equal(t, "Third", list[1].Name)
	assert.Len(t, m.Snapshot().UsageRecords, 1)
}

func TestReconcile_ExpiredAlertsPurgedIdempotently(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := newMemStore()
	m := NewManager(1, store, clk, logger.NewNop(), deadlineOnly())

	data := models.UserData{PersistentAlerts: []models.PersistentAlert{
		{ID: "old", ExpiresAt: epoch.Add(-time.Second)},
		{ID: "edge", ExpiresAt: epoch},
		{ID: "live", ExpiresAt: epoch.Add(time.Hour)},
	}}
	require.NoError(t, m.Reconcile(context.Background(), data))
	require.NoError(t, m.Reconcile(context.Background(), store.last(1)))

	for i := 0; i < 3; i++ {
		alerts := m.Alerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "live", alerts[0].ID)
	}
	assert.Len(t, store.last(1).PersistentAlerts, 1)

	clk.Advance(time.Hour)
	assert.Empty(t, m.Alerts())
	assert.Empty(t, m.Snapshot().PersistentAlerts)
}

func TestReconcile_AppliesSettingsDefaults(t *testing.T) {
	clk := clock.NewFake(epoch)
	m := NewManager(1, newMemStore(), clk, logger.NewNop(), deadlineOnly())

	require.NoError(t, m.Reconcile(context.Background(), models.UserData{
		Settings: models.Settings{ElectricityRate: 6},
	}))
	s := m.Settings()
	assert.Equal(t, 6.0, s.ElectricityRate)
	assert.Equal(t, models.DefaultDailyGoalKwh, s.DailyGoalKwh)
	assert.Equal(t, models.DefaultTimezone, s.Timezone)
	assert.True(t, s.NotificationsEnabled())
}

func TestReconcile_SaveFailureIsReported(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := &repositorymock.MockUserData{}
	store.On("Save", mock.Anything, 3, mock.AnythingOfType("models.UserData")).
		Return(assert.AnError).Once()
	store.On("Save", mock.Anything, 3, mock.MatchedBy(func(d models.UserData) bool {
		return len(d.UsageRecords) == 1
	})).Return(nil).Once()

	m := NewManager(3, store, clk, logger.NewNop(), deadlineOnly())
	overdue := persisted("a1", "Pump", 750, epoch.Add(-2*time.Hour), epoch.Add(-time.Hour), models.StateRunning)

	err := m.Reconcile(context.Background(), models.UserData{ActiveAppliances: []models.ActiveAppliance{overdue}})
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, assert.AnError)
	assert.Len(t, m.Snapshot().UsageRecords, 1)

	clk.Advance(DefaultConfig().PersistRetry)
	store.AssertExpectations(t)
}
