package models

import "time"

// TerminationKind records how an appliance run ended.
type TerminationKind string

const (
	TerminationManual       TerminationKind = "manual"
	TerminationForced       TerminationKind = "forced"
	TerminationAutoShutdown TerminationKind = "auto-shutdown"
)

// Valid reports whether k is a known termination kind.
func (k TerminationKind) Valid() bool {
	switch k {
	case TerminationManual, TerminationForced, TerminationAutoShutdown:
		return true
	}
	return false
}

// UsageRecord is an immutable finalized appliance run.
type UsageRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PowerWatts    float64         `json:"power_watts"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	DurationHours float64         `json:"duration_hours"`
	EnergyKwh     float64         `json:"energy_kwh"`
	Cost          float64         `json:"cost"`
	Termination   TerminationKind `json:"termination"`
}

// NewUsageRecord computes duration, energy and cost for a run from start to
// end at the given electricity rate. An end before start counts as zero.
func NewUsageRecord(id, name string, watts float64, start, end time.Time, rate float64, kind TerminationKind) UsageRecord {
	if end.Before(start) {
		end = start
	}
	hours := end.Sub(start).Hours()
	kwh := EnergyKwh(watts, hours)
	return UsageRecord{
		ID:            id,
		Name:          name,
		PowerWatts:    watts,
		StartTime:     start,
		EndTime:       end,
		DurationHours: hours,
		EnergyKwh:     kwh,
		Cost:          kwh * rate,
		Termination:   kind,
	}
}

// EnergyKwh converts a power draw over a number of hours into kWh.
func EnergyKwh(watts, hours float64) float64 {
	return watts * hours / 1000
}
