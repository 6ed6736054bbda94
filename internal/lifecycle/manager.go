// Package lifecycle tracks a user's running appliances: countdown to the
// scheduled end, a shutdown prompt with a grace period, automatic shutdown
// with a persistent alert, and reconciliation after a restart.
package lifecycle

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecogo/internal/clock"
	"ecogo/internal/logger"
	"ecogo/internal/models"
	"ecogo/internal/repository"
)

type timerPhase int

const (
	phaseNone timerPhase = iota
	phaseCountdown
	phaseGrace
)

func (p timerPhase) String() string {
	switch p {
	case phaseCountdown:
		return "countdown"
	case phaseGrace:
		return "grace"
	default:
		return "none"
	}
}

// armedTimer is the single live timer of an appliance, tagged with the phase
// that armed it. seq identifies the arming; a callback carrying another seq
// is stale.
type armedTimer struct {
	phase  timerPhase
	seq    uint64
	handle clock.Timer
}

type entry struct {
	appliance models.ActiveAppliance
	timer     armedTimer
}

// Manager owns one user's active appliances and their timers. All commands
// and timer callbacks are serialized by mu; store writes happen while it is
// held so a command returns only after its snapshot was handed to the store.
type Manager struct {
	mu     sync.Mutex
	userID int
	store  repository.UserDataRepo
	clock  clock.Clock
	log    *logger.Logger
	cfg    Config

	data    models.UserData // records, alerts and settings; actives live in entries
	entries map[string]*entry
	order   []string // start order of entries

	seq     uint64
	subs    map[uint64]chan Event
	nextSub uint64

	dirty    bool
	retry    clock.Timer
	retrySeq uint64
	closed   bool
}

// StartParams describes an appliance to start.
type StartParams struct {
	Name       string
	PowerWatts float64
	Hours      int
	Minutes    int
	Simulated  bool
}

// LogParams describes a finished run entered by hand.
type LogParams struct {
	Name       string
	PowerWatts float64
	Hours      float64
}

// NewManager returns a manager with default settings and no appliances.
// Call Reconcile with the stored snapshot before use.
func NewManager(userID int, store repository.UserDataRepo, clk clock.Clock, log *logger.Logger, cfg Config) *Manager {
	if clk == nil {
		clk = clock.System
	}
	return &Manager{
		userID:  userID,
		store:   store,
		clock:   clk,
		log:     logger.OrNop(log).With("user_id", userID),
		cfg:     cfg.withDefaults(),
		data:    models.UserData{Settings: models.DefaultSettings()},
		entries: make(map[string]*entry),
		subs:    make(map[uint64]chan Event),
	}
}

// UserID returns the owner of this manager.
func (m *Manager) UserID() int { return m.userID }

// Reconcile replaces the manager state with a stored snapshot. Expired alerts
// are dropped. Appliances with time left resume Running with a fresh
// countdown, whatever state they were saved in. Overdue appliances are
// finalized as auto-shutdown at their scheduled end, each with one alert.
// The result is saved once.
func (m *Manager) Reconcile(ctx context.Context, data models.UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	for _, e := range m.entries {
		m.disarmLocked(e)
	}
	m.entries = make(map[string]*entry)
	m.order = nil

	now := m.clock.Now()
	data = data.Clone()
	m.data = models.UserData{
		UsageRecords:     data.UsageRecords,
		PersistentAlerts: models.PurgeExpired(data.PersistentAlerts, now),
		Settings:         data.Settings.WithDefaults(),
	}

	var resumed, finalized int
	for _, a := range data.ActiveAppliances {
		a := a
		if a.ID == "" {
			a.ID = newID()
		}
		if _, dup := m.entries[a.ID]; dup {
			m.log.Warnw("reconcile_duplicate_appliance", "appliance_id", a.ID)
			continue
		}
		if a.NominalWatts <= 0 {
			a.NominalWatts = a.PowerWatts
		}
		a.State = models.StateRunning
		a.PromptedAt = nil

		if a.ScheduledEnd.After(now) {
			e := &entry{appliance: a}
			m.entries[a.ID] = e
			m.order = append(m.order, a.ID)
			m.armCountdownLocked(e)
			resumed++
			continue
		}

		rec, alert := m.finalizeAutoLocked(a, a.ScheduledEnd, now, true)
		m.log.Infow("appliance_auto_shutdown", "appliance_id", a.ID, "name", a.Name, "reconciled", true, "energy_kwh", rec.EnergyKwh)
		m.emitLocked(Event{Type: EventFinalized, Appliance: &a, Record: &rec, Alert: &alert})
		finalized++
	}

	m.log.Infow("reconciled", "resumed", resumed, "finalized", finalized, "alerts", len(m.data.PersistentAlerts))
	return m.persistLocked(ctx)
}

// Start creates a Running appliance and arms its countdown.
func (m *Manager) Start(ctx context.Context, p StartParams) (models.ActiveAppliance, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return models.ActiveAppliance{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !validWatts(p.PowerWatts):
		return models.ActiveAppliance{}, fmt.Errorf("%w: power rating must be positive", ErrInvalidInput)
	case p.Hours < 0 || p.Minutes < 0:
		return models.ActiveAppliance{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	case int64(p.Hours) > m.maxMinutes()/60 || int64(p.Hours)*60+int64(p.Minutes) > m.maxMinutes():
		return models.ActiveAppliance{}, fmt.Errorf("%w: duration must not exceed %s", ErrInvalidInput, m.cfg.MaxDuration)
	case p.Hours*60+p.Minutes <= 0:
		return models.ActiveAppliance{}, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	minutes := p.Hours*60 + p.Minutes

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.ActiveAppliance{}, ErrClosed
	}

	now := m.clock.Now()
	a := models.ActiveAppliance{
		ID:              newID(),
		Name:            name,
		PowerWatts:      p.PowerWatts,
		NominalWatts:    p.PowerWatts,
		Simulated:       p.Simulated,
		StartTime:       now,
		ScheduledEnd:    now.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		State:           models.StateRunning,
	}
	e := &entry{appliance: a}
	m.entries[a.ID] = e
	m.order = append(m.order, a.ID)
	m.armCountdownLocked(e)

	out := a.WithRemaining(now)
	m.log.Infow("appliance_started", "appliance_id", a.ID, "name", a.Name, "watts", a.PowerWatts, "minutes", minutes)
	m.emitLocked(Event{Type: EventStarted, Appliance: &out})
	return out, m.persistLocked(ctx)
}

// Shutdown finalizes an appliance as a manual stop.
func (m *Manager) Shutdown(ctx context.Context, id string) (models.UsageRecord, error) {
	return m.stop(ctx, id, false)
}

// ForceStop finalizes an appliance. A Running appliance is recorded as
// forced; one already prompted counts as a manual shutdown.
func (m *Manager) ForceStop(ctx context.Context, id string) (models.UsageRecord, error) {
	return m.stop(ctx, id, true)
}

func (m *Manager) stop(ctx context.Context, id string, force bool) (models.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.UsageRecord{}, ErrClosed
	}

	e, ok := m.entries[id]
	if !ok {
		return models.UsageRecord{}, fmt.Errorf("%w: appliance %s", ErrNotFound, id)
	}

	kind := models.TerminationManual
	if force && e.appliance.State == models.StateRunning {
		kind = models.TerminationForced
	}

	now := m.clock.Now()
	a := e.appliance
	m.removeLocked(e)
	rec := m.recordLocked(a, now, kind)

	m.log.Infow("appliance_stopped", "appliance_id", a.ID, "name", a.Name, "termination", kind, "energy_kwh", rec.EnergyKwh)
	m.emitLocked(Event{Type: EventFinalized, Appliance: &a, Record: &rec})
	return rec, m.persistLocked(ctx)
}

// Extend pushes the scheduled end forward and returns the appliance to
// Running. minutes <= 0 uses the configured default extension.
func (m *Manager) Extend(ctx context.Context, id string, minutes int) (models.ActiveAppliance, error) {
	if int64(minutes) > m.maxMinutes() {
		return models.ActiveAppliance{}, fmt.Errorf("%w: extension must not exceed %s", ErrInvalidInput, m.cfg.MaxDuration)
	}
	ext := time.Duration(minutes) * time.Minute
	if minutes <= 0 {
		ext = m.cfg.DefaultExtension
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.ActiveAppliance{}, ErrClosed
	}

	e, ok := m.entries[id]
	if !ok {
		return models.ActiveAppliance{}, fmt.Errorf("%w: appliance %s", ErrNotFound, id)
	}
	if total := e.appliance.ScheduledEnd.Add(ext).Sub(e.appliance.StartTime); total > m.cfg.MaxDuration {
		return models.ActiveAppliance{}, fmt.Errorf("%w: run would last %s, limit is %s", ErrInvalidInput, total, m.cfg.MaxDuration)
	}

	e.appliance.ScheduledEnd = e.appliance.ScheduledEnd.Add(ext)
	e.appliance.DurationMinutes += int(ext / time.Minute)
	e.appliance.State = models.StateRunning
	e.appliance.PromptedAt = nil
	m.armCountdownLocked(e)

	out := e.appliance.WithRemaining(m.clock.Now())
	m.log.Infow("appliance_extended", "appliance_id", id, "by", ext, "scheduled_end", out.ScheduledEnd)
	m.emitLocked(Event{Type: EventExtended, Appliance: &out})
	return out, m.persistLocked(ctx)
}

// UpdatePower changes the current draw of an appliance. It is not a state
// transition and is not saved on its own; the value travels with the next
// snapshot.
func (m *Manager) UpdatePower(id string, watts float64) (models.ActiveAppliance, error) {
	if !validWatts(watts) {
		return models.ActiveAppliance{}, fmt.Errorf("%w: power rating must be positive", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.ActiveAppliance{}, ErrClosed
	}

	e, ok := m.entries[id]
	if !ok {
		return models.ActiveAppliance{}, fmt.Errorf("%w: appliance %s", ErrNotFound, id)
	}
	e.appliance.PowerWatts = watts

	out := e.appliance.Clone().WithRemaining(m.clock.Now())
	m.emitLocked(Event{Type: EventPowerChanged, Appliance: &out})
	return out, nil
}

// RecordUsage adds a finished run entered by hand, ending now.
func (m *Manager) RecordUsage(ctx context.Context, p LogParams) (models.UsageRecord, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return models.UsageRecord{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !validWatts(p.PowerWatts):
		return models.UsageRecord{}, fmt.Errorf("%w: power rating must be positive", ErrInvalidInput)
	case p.Hours <= 0 || math.IsInf(p.Hours, 0) || math.IsNaN(p.Hours):
		return models.UsageRecord{}, fmt.Errorf("%w: hours must be positive", ErrInvalidInput)
	case p.Hours > m.cfg.MaxDuration.Hours():
		return models.UsageRecord{}, fmt.Errorf("%w: hours must not exceed %s", ErrInvalidInput, m.cfg.MaxDuration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.UsageRecord{}, ErrClosed
	}

	now := m.clock.Now()
	start := now.Add(-time.Duration(p.Hours * float64(time.Hour)))
	rec := models.NewUsageRecord(newID(), name, p.PowerWatts, start, now, m.data.Settings.ElectricityRate, models.TerminationManual)
	m.data.UsageRecords = append(m.data.UsageRecords, rec)

	m.emitLocked(Event{Type: EventLogged, Record: &rec})
	return rec, m.persistLocked(ctx)
}

// Settings returns the current user settings.
func (m *Manager) Settings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Clone().Settings
}

// UpdateSettings replaces the user settings. Rate and daily goal must be
// given; unset text fields and notifications take defaults. Records already
// finalized keep the rate they were costed with.
func (m *Manager) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	if s.ElectricityRate <= 0 || math.IsNaN(s.ElectricityRate) || math.IsInf(s.ElectricityRate, 0) {
		return models.Settings{}, fmt.Errorf("%w: electricity rate must be positive", ErrInvalidInput)
	}
	if s.DailyGoalKwh <= 0 || math.IsNaN(s.DailyGoalKwh) || math.IsInf(s.DailyGoalKwh, 0) {
		return models.Settings{}, fmt.Errorf("%w: daily goal must be positive", ErrInvalidInput)
	}
	s = s.WithDefaults()
	if _, err := s.Location(); err != nil {
		return models.Settings{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, s.Timezone)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.Settings{}, ErrClosed
	}
	m.data.Settings = s
	return s, m.persistLocked(ctx)
}

// Alerts returns the persistent alerts that have not expired.
func (m *Manager) Alerts() []models.PersistentAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.PersistentAlerts = models.PurgeExpired(m.data.PersistentAlerts, m.clock.Now())
	return append([]models.PersistentAlert(nil), m.data.PersistentAlerts...)
}

// DismissAlert removes a persistent alert before it expires.
func (m *Manager) DismissAlert(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	alerts := models.PurgeExpired(m.data.PersistentAlerts, m.clock.Now())
	for i, a := range alerts {
		if a.ID == id {
			m.data.PersistentAlerts = append(alerts[:i:i], alerts[i+1:]...)
			return m.persistLocked(ctx)
		}
	}
	m.data.PersistentAlerts = alerts
	return fmt.Errorf("%w: alert %s", ErrNotFound, id)
}

// ListActive returns the active appliances in start order with live
// remaining time.
func (m *Manager) ListActive() []models.ActiveAppliance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked(m.clock.Now())
}

// Snapshot returns a deep copy of the user's data including the active set.
// Expired alerts are excluded.
func (m *Manager) Snapshot() models.UserData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(m.clock.Now())
}

// Subscribe registers a listener. Events are dropped for a subscriber whose
// buffer is full. cancel is idempotent; after Close the channel is closed.
func (m *Manager) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	m.nextSub++
	id := m.nextSub
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

// Close cancels every timer, flushes an unsaved snapshot once and closes
// subscriber channels. Later commands return ErrClosed.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	for _, e := range m.entries {
		m.disarmLocked(e)
	}
	m.stopRetryLocked()

	var err error
	if m.dirty {
		snap := m.snapshotLocked(m.clock.Now())
		if serr := m.store.Save(ctx, m.userID, snap); serr != nil {
			m.log.Errorw("close_flush_failed", "err", serr)
			err = fmt.Errorf("%w: %w", ErrPersistence, serr)
		} else {
			m.dirty = false
		}
	}

	m.closed = true
	for id, c := range m.subs {
		delete(m.subs, id)
		close(c)
	}
	return err
}

func (m *Manager) activeLocked(now time.Time) []models.ActiveAppliance {
	out := make([]models.ActiveAppliance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].appliance.Clone().WithRemaining(now))
	}
	return out
}

func (m *Manager) snapshotLocked(now time.Time) models.UserData {
	d := m.data.Clone()
	d.PersistentAlerts = models.PurgeExpired(d.PersistentAlerts, now)
	d.ActiveAppliances = m.activeLocked(now)
	d.UpdatedAt = now.UTC()
	return d
}

// removeLocked cancels the entry's timer and drops it from the active set.
func (m *Manager) removeLocked(e *entry) {
	m.disarmLocked(e)
	id := e.appliance.ID
	delete(m.entries, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// recordLocked creates and stores the usage record of a finished run. The
// record id is the appliance id.
func (m *Manager) recordLocked(a models.ActiveAppliance, end time.Time, kind models.TerminationKind) models.UsageRecord {
	rec := models.NewUsageRecord(a.ID, a.Name, a.PowerWatts, a.StartTime, end, m.data.Settings.ElectricityRate, kind)
	m.data.UsageRecords = append(m.data.UsageRecords, rec)
	return rec
}

// finalizeAutoLocked records an auto-shutdown ending at end and adds one
// alert created at now. The appliance must already be out of the active set.
func (m *Manager) finalizeAutoLocked(a models.ActiveAppliance, end, now time.Time, reconciled bool) (models.UsageRecord, models.PersistentAlert) {
	rec := m.recordLocked(a, end, models.TerminationAutoShutdown)

	msg := fmt.Sprintf("%s was turned off automatically because there was no response within %s of its scheduled end.",
		a.Name, m.cfg.GracePeriod)
	if reconciled {
		msg = fmt.Sprintf("%s reached its scheduled end while the session was offline and was turned off automatically.", a.Name)
	}
	alert := models.PersistentAlert{
		ID:            uuid.NewString(),
		Severity:      models.SeverityWarning,
		Title:         "Appliance auto-shutdown",
		Message:       msg,
		ApplianceName: a.Name,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.cfg.AlertRetention),
	}
	m.data.PersistentAlerts = append(m.data.PersistentAlerts, alert)
	return rec, alert
}

// persistLocked saves the full snapshot. On failure the in-memory state is
// kept, a retry is scheduled and ErrPersistence is returned.
func (m *Manager) persistLocked(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// the caller going away must not abort a save of an applied transition
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.SaveTimeout)
	defer cancel()

	if err := m.store.Save(ctx, m.userID, m.snapshotLocked(m.clock.Now())); err != nil {
		m.dirty = true
		m.armRetryLocked()
		m.log.Warnw("persist_failed", "err", err, "retry_in", m.cfg.PersistRetry)
		m.emitLocked(Event{Type: EventPersistFailed, Err: err})
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	m.dirty = false
	m.stopRetryLocked()
	return nil
}

// emitLocked fans an event out without blocking.
func (m *Manager) emitLocked(ev Event) {
	ev.UserID = m.userID
	if ev.At.IsZero() {
		ev.At = m.clock.Now()
	}
	for id, c := range m.subs {
		select {
		case c <- ev:
		default:
			m.log.Debugw("event_dropped", "subscriber", id, "type", ev.Type)
		}
	}
}

// maxMinutes is MaxDuration in whole minutes.
func (m *Manager) maxMinutes() int64 {
	return int64(m.cfg.MaxDuration / time.Minute)
}

func validWatts(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// newID returns a time-ordered id, unique within the same millisecond.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
