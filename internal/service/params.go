package service

import (
	"time"

	"ecogo/internal/models"
)

// LogFilter supports event log filtering by user, time range and type.
type LogFilter struct {
	UserID int
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string    // "", "START", "PROMPT", "EXTEND", "SHUTDOWN", "FORCE_STOP", "AUTO_SHUTDOWN", ...
}

// HistoryFilter selects usage records by end time and termination kind.
type HistoryFilter struct {
	From        time.Time // inclusive on end_time; zero means no lower bound
	To          time.Time // inclusive on end_time; zero means no upper bound
	Termination models.TerminationKind
}
