package lifecycle

import (
	"time"

	"ecogo/internal/models"
)

type EventType string

const (
	EventStarted       EventType = "started"
	EventTick          EventType = "tick"
	EventPrompted      EventType = "prompted"
	EventExtended      EventType = "extended"
	EventFinalized     EventType = "finalized"
	EventLogged        EventType = "logged"
	EventPowerChanged  EventType = "power_changed"
	EventPersistFailed EventType = "persist_failed"
)

// Actions offered to the user while an appliance is prompted.
const (
	ActionShutdown = "shutdown"
	ActionExtend   = "extend"
)

// Event is a state change notification delivered to subscribers.
type Event struct {
	Type      EventType               `json:"type"`
	UserID    int                     `json:"user_id"`
	At        time.Time               `json:"at"`
	Appliance *models.ActiveAppliance `json:"appliance,omitempty"`
	Record    *models.UsageRecord     `json:"record,omitempty"`
	Alert     *models.PersistentAlert `json:"alert,omitempty"`
	Actions   []string                `json:"actions,omitempty"` // set on EventPrompted
	Err       error                   `json:"-"`
}
