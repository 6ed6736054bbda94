package models

import "time"

// DailyUsage aggregates finalized usage for one calendar day.
type DailyUsage struct {
	Date      string  `json:"date"` // YYYY-MM-DD in the user's timezone
	EnergyKwh float64 `json:"energy_kwh"`
	Cost      float64 `json:"cost"`
}

// Summary is the dashboard view of a user's consumption.
type Summary struct {
	GeneratedAt      time.Time    `json:"generated_at"`
	TodayKwh         float64      `json:"today_kwh"`
	TodayCost        float64      `json:"today_cost"`
	Currency         string       `json:"currency"`
	DailyGoalKwh     float64      `json:"daily_goal_kwh"`
	GoalProgress     float64      `json:"goal_progress"` // percent, capped at 100
	ActiveAppliances int          `json:"active_appliances"`
	ActiveAlerts     int          `json:"active_alerts"`
	Alerts           []Alert      `json:"alerts,omitempty"`
	Daily            []DailyUsage `json:"daily"`
}
