package models

import "time"

// UserData is the persisted snapshot of one user.
type UserData struct {
	UsageRecords     []UsageRecord     `json:"usage_records"`
	ActiveAppliances []ActiveAppliance `json:"active_appliances"`
	PersistentAlerts []PersistentAlert `json:"persistent_alerts"`
	Settings         Settings          `json:"settings"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Clone returns a deep copy so callers can never alias the owner's slices.
func (d UserData) Clone() UserData {
	out := UserData{
		UsageRecords:     append([]UsageRecord(nil), d.UsageRecords...),
		PersistentAlerts: append([]PersistentAlert(nil), d.PersistentAlerts...),
		Settings:         d.Settings,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.Settings.Notifications != nil {
		v := *d.Settings.Notifications
		out.Settings.Notifications = &v
	}
	if d.ActiveAppliances != nil {
		out.ActiveAppliances = make([]ActiveAppliance, len(d.ActiveAppliances))
		for i, a := range d.ActiveAppliances {
			out.ActiveAppliances[i] = a.Clone()
		}
	}
	return out
}
