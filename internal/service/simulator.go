package service

import (
	"context"
	"math/rand"
	"time"

	"ecogo/internal/lifecycle"
)

const defaultJitter = 0.1

// SimulatorConfig tunes the simulated smart plugs.
type SimulatorConfig struct {
	// Jitter is the maximum relative deviation from the nominal rating.
	Jitter float64 `mapstructure:"jitter"`
}

// SimulatorService makes the draw of simulated appliances fluctuate around
// their nominal rating.
type SimulatorService struct {
	sessions *Sessions
	jitter   float64
	rand     func() float64 // in [0, 1)
}

// NewSimulatorService returns a simulator with defaults.
func NewSimulatorService(sessions *Sessions, cfg SimulatorConfig) *SimulatorService {
	j := cfg.Jitter
	if j <= 0 || j >= 1 {
		j = defaultJitter
	}
	return &SimulatorService{
		sessions: sessions,
		jitter:   j,
		rand:     rand.Float64,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step()
		}
	}
}

// step draws a new power reading for every simulated appliance of every open
// session.
func (s *SimulatorService) step() {
	s.sessions.Each(func(m *lifecycle.Manager) {
		for _, a := range m.ListActive() {
			if !a.Simulated || a.NominalWatts <= 0 {
				continue
			}
			// The appliance may finalize between listing and update.
			_, _ = m.UpdatePower(a.ID, s.sample(a.NominalWatts))
		}
	})
}

// sample returns nominal scaled by a factor in [1-jitter, 1+jitter).
func (s *SimulatorService) sample(nominal float64) float64 {
	return nominal * (1 + s.jitter*(2*s.rand()-1))
}
