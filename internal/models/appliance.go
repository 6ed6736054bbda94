package models

import "time"

// PromptState is the lifecycle phase of an appliance.
type PromptState string

const (
	StateRunning   PromptState = "RUNNING"
	StatePrompted  PromptState = "PROMPTED_FOR_SHUTDOWN"
	StateFinalized PromptState = "FINALIZED"
)

// ActiveAppliance is an appliance currently tracked as running.
type ActiveAppliance struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// PowerWatts may fluctuate for simulated plugs; NominalWatts keeps the
	// rating requested at start.
	PowerWatts   float64   `json:"power_watts"`
	NominalWatts float64   `json:"nominal_watts"`
	Simulated    bool      `json:"simulated,omitempty"`
	StartTime    time.Time `json:"start_time"`
	ScheduledEnd time.Time `json:"scheduled_end_time"`
	// DurationMinutes is cumulative, extensions included.
	DurationMinutes int         `json:"duration_minutes"`
	State           PromptState `json:"state"`
	PromptedAt      *time.Time  `json:"prompted_at,omitempty"`
	// RemainingSeconds is derived from ScheduledEnd on every read; the
	// persisted value is ignored on load.
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// Remaining returns ScheduledEnd-now clamped at zero.
func (a ActiveAppliance) Remaining(now time.Time) time.Duration {
	d := a.ScheduledEnd.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// WithRemaining returns a copy with RemainingSeconds computed for now,
// rounded up to the next whole second.
func (a ActiveAppliance) WithRemaining(now time.Time) ActiveAppliance {
	d := a.Remaining(now)
	a.RemainingSeconds = int64((d + time.Second - 1) / time.Second)
	return a
}

// Clone returns a deep copy.
func (a ActiveAppliance) Clone() ActiveAppliance {
	if a.PromptedAt != nil {
		t := *a.PromptedAt
		a.PromptedAt = &t
	}
	return a
}
