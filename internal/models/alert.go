package models

import "time"

// Alert severities, matching the dashboard's alert styles.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
	SeveritySuccess = "success"
)

// PersistentAlert is a notice retained across sessions until ExpiresAt.
type PersistentAlert struct {
	ID            string    `json:"id"`
	Severity      string    `json:"severity"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	ApplianceName string    `json:"appliance_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the alert must no longer be shown at now.
func (a PersistentAlert) Expired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}

// PurgeExpired returns the alerts still live at now, preserving order.
// It never mutates the input slice.
func PurgeExpired(alerts []PersistentAlert, now time.Time) []PersistentAlert {
	out := make([]PersistentAlert, 0, len(alerts))
	for _, a := range alerts {
		if !a.Expired(now) {
			out = append(out, a)
		}
	}
	return out
}

// Alert is an ephemeral notice computed on each read and never stored.
type Alert struct {
	ID       string    `json:"id"`
	Severity string    `json:"severity"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}
