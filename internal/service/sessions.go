package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ecogo/internal/clock"
	"ecogo/internal/lifecycle"
	"ecogo/internal/logger"
	"ecogo/internal/models"
	"ecogo/internal/repository"
)

// Publisher receives finalized usage records and auto-shutdown alerts for
// delivery outside the process.
type Publisher interface {
	PublishUsage(userID int, rec models.UsageRecord) error
	PublishAlert(userID int, alert models.PersistentAlert) error
}

const (
	forwardBuffer      = 256
	eventAppendTimeout = 5 * time.Second
)

type session struct {
	manager *lifecycle.Manager
	cancel  func()
}

// Sessions owns one lifecycle manager per user. A manager is opened on first
// use by loading the user's snapshot and reconciling it against the clock.
type Sessions struct {
	mu       sync.Mutex
	store    repository.UserDataRepo
	events   repository.EventRepo
	pub      Publisher
	clock    clock.Clock
	log      *logger.Logger
	cfg      lifecycle.Config
	sessions map[int]*session
	closed   bool
	wg       sync.WaitGroup

	// opening dedupes concurrent first use of the same user; the load and
	// reconcile run outside mu.
	opening singleflight.Group
}

// NewSessions builds an empty registry. events and pub may be nil.
func NewSessions(store repository.UserDataRepo, events repository.EventRepo, pub Publisher, clk clock.Clock, log *logger.Logger, cfg lifecycle.Config) *Sessions {
	if clk == nil {
		clk = clock.System
	}
	return &Sessions{
		store:    store,
		events:   events,
		pub:      pub,
		clock:    clk,
		log:      logger.OrNop(log).Named("sessions"),
		cfg:      cfg,
		sessions: make(map[int]*session),
	}
}

// Clock returns the clock shared by every manager.
func (s *Sessions) Clock() clock.Clock { return s.clock }

// Get returns the user's manager, opening it if needed. A reconciliation
// whose save failed still yields a usable manager; the save is retried.
func (s *Sessions) Get(ctx context.Context, userID int) (*lifecycle.Manager, error) {
	if m, err := s.lookup(userID); m != nil || err != nil {
		return m, err
	}
	v, err, _ := s.opening.Do(strconv.Itoa(userID), func() (any, error) {
		return s.open(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*lifecycle.Manager), nil
}

func (s *Sessions) lookup(userID int) (*lifecycle.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, lifecycle.ErrClosed
	}
	if sess, ok := s.sessions[userID]; ok {
		return sess.manager, nil
	}
	return nil, nil
}

// open loads and reconciles a user without holding mu. The forwarder is
// counted in wg before Close can start waiting on it.
func (s *Sessions) open(ctx context.Context, userID int) (*lifecycle.Manager, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, lifecycle.ErrClosed
	}
	if sess, ok := s.sessions[userID]; ok {
		s.mu.Unlock()
		return sess.manager, nil
	}
	s.wg.Add(1)
	s.mu.Unlock()

	data, err := s.store.Load(ctx, userID)
	if err != nil {
		s.wg.Done()
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	m := lifecycle.NewManager(userID, s.store, s.clock, s.log, s.cfg)
	ch, cancel := m.Subscribe(forwardBuffer)
	go s.forward(userID, ch)

	if err := m.Reconcile(ctx, data); err != nil {
		if !errors.Is(err, lifecycle.ErrPersistence) {
			cancel()
			_ = m.Close(ctx)
			return nil, err
		}
		s.log.Warnw("reconcile_save_failed", "user_id", userID, "err", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = m.Close(context.WithoutCancel(ctx))
		return nil, lifecycle.ErrClosed
	}
	s.sessions[userID] = &session{manager: m, cancel: cancel}
	return m, nil
}

// ReconcileAll opens every user known to the store, finalizing whatever
// expired while the process was down. It returns the number of users opened.
func (s *Sessions) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := s.store.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var (
		opened int
		errs   []error
	)
	for _, id := range ids {
		if _, err := s.Get(ctx, id); err != nil {
			s.log.Errorw("reconcile_user_failed", "user_id", id, "err", err)
			errs = append(errs, fmt.Errorf("user %d: %w", id, err))
			continue
		}
		opened++
	}
	s.log.Infow("reconcile_all_done", "users", len(ids), "opened", opened)
	return opened, errors.Join(errs...)
}

// Each calls fn for every open manager, outside the registry lock.
func (s *Sessions) Each(fn func(m *lifecycle.Manager)) {
	s.mu.Lock()
	managers := make([]*lifecycle.Manager, 0, len(s.sessions))
	for _, sess := range s.sessions {
		managers = append(managers, sess.manager)
	}
	s.mu.Unlock()

	for _, m := range managers {
		fn(m)
	}
}

// Close tears down every manager and waits for event forwarding to drain.
func (s *Sessions) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[int]*session)
	s.mu.Unlock()

	var errs []error
	for id, sess := range sessions {
		if err := sess.manager.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close user %d: %w", id, err))
		}
	}
	s.wg.Wait()
	return errors.Join(errs...)
}

// forward writes lifecycle events to the event log and the publisher until
// the manager closes the channel.
func (s *Sessions) forward(userID int, ch <-chan lifecycle.Event) {
	defer s.wg.Done()
	for ev := range ch {
		rec, ok := auditEvent(ev)
		if ok && s.events != nil {
			ctx, cancel := context.WithTimeout(context.Background(), eventAppendTimeout)
			if err := s.events.Append(ctx, rec); err != nil {
				s.log.Warnw("event_append_failed", "user_id", userID, "type", rec.Type, "err", err)
			}
			cancel()
		}
		if s.pub == nil {
			continue
		}
		if ev.Record != nil && (ev.Type == lifecycle.EventFinalized || ev.Type == lifecycle.EventLogged) {
			if err := s.pub.PublishUsage(userID, *ev.Record); err != nil {
				s.log.Warnw("publish_usage_failed", "user_id", userID, "err", err)
			}
		}
		if ev.Alert != nil {
			if err := s.pub.PublishAlert(userID, *ev.Alert); err != nil {
				s.log.Warnw("publish_alert_failed", "user_id", userID, "err", err)
			}
		}
	}
}

// auditEvent maps a lifecycle event to its audit log row. Ticks and power
// changes are not logged.
func auditEvent(ev lifecycle.Event) (models.ApplianceEvent, bool) {
	out := models.ApplianceEvent{UserID: ev.UserID, OccurredAt: ev.At}
	meta := map[string]any{}
	if a := ev.Appliance; a != nil {
		meta["appliance_id"] = a.ID
		meta["name"] = a.Name
		meta["power_watts"] = a.PowerWatts
		meta["scheduled_end_time"] = a.ScheduledEnd
	}

	switch ev.Type {
	case lifecycle.EventStarted:
		out.Type = models.EventTypeStart
		out.Description = fmt.Sprintf("%s started for %d min", ev.Appliance.Name, ev.Appliance.DurationMinutes)
	case lifecycle.EventPrompted:
		out.Type = models.EventTypePrompt
		out.Description = fmt.Sprintf("%s reached its scheduled end", ev.Appliance.Name)
	case lifecycle.EventExtended:
		out.Type = models.EventTypeExtend
		out.Description = fmt.Sprintf("%s extended to %d min", ev.Appliance.Name, ev.Appliance.DurationMinutes)
	case lifecycle.EventFinalized:
		switch ev.Record.Termination {
		case models.TerminationForced:
			out.Type = models.EventTypeForceStop
		case models.TerminationAutoShutdown:
			out.Type = models.EventTypeAutoShutdown
		default:
			out.Type = models.EventTypeShutdown
		}
		out.Description = fmt.Sprintf("%s stopped (%s), %.3f kWh", ev.Record.Name, ev.Record.Termination, ev.Record.EnergyKwh)
		meta["energy_kwh"] = ev.Record.EnergyKwh
		meta["cost"] = ev.Record.Cost
		if ev.Alert != nil {
			meta["alert_id"] = ev.Alert.ID
		}
	case lifecycle.EventLogged:
		out.Type = models.EventTypeLog
		out.Description = fmt.Sprintf("%s logged manually, %.3f kWh", ev.Record.Name, ev.Record.EnergyKwh)
		meta["energy_kwh"] = ev.Record.EnergyKwh
	case lifecycle.EventPersistFailed:
		out.Type = models.EventTypePersistFailed
		out.Description = "saving user data failed; retry scheduled"
		if ev.Err != nil {
			meta["err"] = ev.Err.Error()
		}
	default:
		return models.ApplianceEvent{}, false
	}

	if len(meta) > 0 {
		out.Metadata = meta
	}
	return out, true
}
