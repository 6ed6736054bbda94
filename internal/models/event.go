package models

import "time"

// Appliance event types recorded in the audit log.
const (
	EventTypeStart         = "START"
	EventTypePrompt        = "PROMPT"
	EventTypeExtend        = "EXTEND"
	EventTypeShutdown      = "SHUTDOWN"
	EventTypeForceStop     = "FORCE_STOP"
	EventTypeAutoShutdown  = "AUTO_SHUTDOWN"
	EventTypeLog           = "LOG"
	EventTypePersistFailed = "PERSIST_FAILED"
)

// ApplianceEvent is a single audit log entry.
type ApplianceEvent struct {
	EventID     string    `json:"event_id"`
	UserID      int       `json:"user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
