package models

import (
	"time"
	_ "time/tzdata" // hosts without a zoneinfo database
)

// Defaults applied to a user's settings when a field is unset.
const (
	DefaultElectricityRate = 8.5
	DefaultDailyGoalKwh    = 10.0
	DefaultCurrency        = "₹"
	DefaultTimezone        = "Asia/Kolkata"
	DefaultTheme           = "dark"
)

// Settings holds user-level preferences, including the electricity rate
// used for cost accounting.
type Settings struct {
	ElectricityRate float64 `json:"electricity_rate"` // currency per kWh
	DailyGoalKwh    float64 `json:"daily_goal_kwh"`
	Currency        string  `json:"currency"`
	Timezone        string  `json:"timezone"`
	Theme           string  `json:"theme"`
	Notifications   *bool   `json:"notifications,omitempty"`
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings() Settings {
	return Settings{}.WithDefaults()
}

// WithDefaults fills unset or non-positive fields.
func (s Settings) WithDefaults() Settings {
	if s.ElectricityRate <= 0 {
		s.ElectricityRate = DefaultElectricityRate
	}
	if s.DailyGoalKwh <= 0 {
		s.DailyGoalKwh = DefaultDailyGoalKwh
	}
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if s.Notifications == nil {
		on := true
		s.Notifications = &on
	}
	return s
}

// NotificationsEnabled reports the notifications preference, defaulting to on.
func (s Settings) NotificationsEnabled() bool {
	return s.Notifications == nil || *s.Notifications
}

// Location resolves the configured timezone.
func (s Settings) Location() (*time.Location, error) {
	tz := s.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}
