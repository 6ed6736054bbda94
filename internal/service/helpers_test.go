package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecogo/internal/clock"
	"ecogo/internal/lifecycle"
	"ecogo/internal/logger"
	"ecogo/internal/models"
)

// 2025-03-04 10:00 in Asia/Kolkata.
var epoch = time.Date(2025, 3, 4, 4, 30, 0, 0, time.UTC)

type memUserData struct {
	mu   sync.Mutex
	data map[int]models.UserData
	err  error
}

func newMemUserData() *memUserData {
	return &memUserData{data: map[int]models.UserData{}}
}

func (s *memUserData) Load(_ context.Context, userID int) (models.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[userID].Clone(), nil
}

func (s *memUserData) Save(_ context.Context, userID int, d models.UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[userID] = d.Clone()
	return nil
}

func (s *memUserData) UserIDs(context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memUserData) put(userID int, d models.UserData) {
	s.mu.Lock()
	s.data[userID] = d
	s.mu.Unlock()
}

func (s *memUserData) get(userID int) models.UserData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[userID].Clone()
}

type memEvents struct {
	mu     sync.Mutex
	events []models.ApplianceEvent
}

func (e *memEvents) Append(_ context.Context, ev models.ApplianceEvent) error {
	e.mu.Lock()
	e.events = append(e.events, ev)
	e.mu.Unlock()
	return nil
}

func (e *memEvents) List(context.Context, int, time.Time, time.Time, string) ([]models.ApplianceEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.ApplianceEvent(nil), e.events...), nil
}

func (e *memEvents) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	usage  []models.UsageRecord
	alerts []models.PersistentAlert
}

func (p *recordingPublisher) PublishUsage(_ int, rec models.UsageRecord) error {
	p.mu.Lock()
	p.usage = append(p.usage, rec)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) PublishAlert(_ int, a models.PersistentAlert) error {
	p.mu.Lock()
	p.alerts = append(p.alerts, a)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.usage), len(p.alerts)
}

type testEnv struct {
	store    *memUserData
	events   *memEvents
	pub      *recordingPublisher
	clock    *clock.Fake
	sessions *Sessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := lifecycle.DefaultConfig()
	cfg.TickInterval = 0

	env := &testEnv{
		store:  newMemUserData(),
		events: &memEvents{},
		pub:    &recordingPublisher{},
		clock:  clock.NewFake(epoch),
	}
	env.sessions = NewSessions(env.store, env.events, env.pub, env.clock, logger.NewNop(), cfg)
	t.Cleanup(func() {
		require.NoError(t, env.sessions.Close(context.Background()))
	})
	return env
}
