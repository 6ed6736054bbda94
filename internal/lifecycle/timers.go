package lifecycle

import (
	"context"
	"time"

	"ecogo/internal/models"
)

// disarmLocked cancels whatever timer the entry holds.
func (m *Manager) disarmLocked(e *entry) {
	if e.timer.handle != nil {
		e.timer.handle.Stop()
	}
	e.timer = armedTimer{}
}

func (m *Manager) armLocked(e *entry, phase timerPhase, d time.Duration, fire func(id string, seq uint64)) {
	m.disarmLocked(e)
	m.seq++
	seq, id := m.seq, e.appliance.ID
	e.timer = armedTimer{
		phase:  phase,
		seq:    seq,
		handle: m.clock.AfterFunc(d, func() { fire(id, seq) }),
	}
}

// armCountdownLocked schedules the next countdown firing: one tick interval
// ahead, or the scheduled end if that comes first.
func (m *Manager) armCountdownLocked(e *entry) {
	d := e.appliance.Remaining(m.clock.Now())
	if tick := m.cfg.TickInterval; tick > 0 && tick < d {
		d = tick
	}
	m.armLocked(e, phaseCountdown, d, m.onCountdown)
}

func (m *Manager) armGraceLocked(e *entry) {
	m.armLocked(e, phaseGrace, m.cfg.GracePeriod, m.onGrace)
}

// liveLocked returns the entry whose armed timer is (id, phase, seq), or nil
// when the callback is stale.
func (m *Manager) liveLocked(id string, phase timerPhase, seq uint64) *entry {
	if m.closed {
		return nil
	}
	e, ok := m.entries[id]
	if !ok || e.timer.phase != phase || e.timer.seq != seq {
		return nil
	}
	e.timer.handle = nil // fired
	return e
}

func (m *Manager) onCountdown(id string, seq uint64) {
	defer m.recoverCallback(phaseCountdown, id)
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.liveLocked(id, phaseCountdown, seq)
	if e == nil {
		return
	}

	now := m.clock.Now()
	if e.appliance.Remaining(now) > 0 {
		out := e.appliance.Clone().WithRemaining(now)
		m.emitLocked(Event{Type: EventTick, Appliance: &out})
		m.armCountdownLocked(e)
		return
	}

	e.appliance.State = models.StatePrompted
	at := now
	e.appliance.PromptedAt = &at
	m.armGraceLocked(e)

	out := e.appliance.Clone().WithRemaining(now)
	m.log.Infow("appliance_prompted", "appliance_id", id, "name", out.Name, "grace", m.cfg.GracePeriod)
	m.emitLocked(Event{Type: EventPrompted, Appliance: &out, Actions: []string{ActionShutdown, ActionExtend}})
	_ = m.persistLocked(context.Background())
}

func (m *Manager) onGrace(id string, seq uint64) {
	defer m.recoverCallback(phaseGrace, id)
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.liveLocked(id, phaseGrace, seq)
	if e == nil || e.appliance.State != models.StatePrompted {
		return
	}

	now := m.clock.Now()
	a := e.appliance
	m.removeLocked(e)
	rec, alert := m.finalizeAutoLocked(a, now, now, false)

	m.log.Infow("appliance_auto_shutdown", "appliance_id", id, "name", a.Name, "energy_kwh", rec.EnergyKwh)
	m.emitLocked(Event{Type: EventFinalized, Appliance: &a, Record: &rec, Alert: &alert})
	_ = m.persistLocked(context.Background())
}

// armRetryLocked schedules a save of the latest snapshot unless one is
// already pending.
func (m *Manager) armRetryLocked() {
	if m.retry != nil || m.closed {
		return
	}
	m.retrySeq++
	seq := m.retrySeq
	m.retry = m.clock.AfterFunc(m.cfg.PersistRetry, func() { m.onRetry(seq) })
}

func (m *Manager) stopRetryLocked() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

func (m *Manager) onRetry(seq uint64) {
	defer m.recoverCallback(phaseNone, "")
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || seq != m.retrySeq || m.retry == nil {
		return
	}
	m.retry = nil
	if !m.dirty {
		return
	}
	if err := m.persistLocked(context.Background()); err == nil {
		m.log.Infow("persist_recovered")
	}
}

// recoverCallback logs a panic raised inside a timer callback and swallows it.
func (m *Manager) recoverCallback(phase timerPhase, id string) {
	if r := recover(); r != nil {
		m.log.Errorw("timer_callback_panic", "phase", phase.String(), "appliance_id", id, "panic", r)
	}
}
