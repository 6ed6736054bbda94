package service

import (
	"context"
	"time"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
	"ecogo/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, email, password, displayName string) (int, error)
	GenerateToken(email, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Appliances exposes the per-user lifecycle commands.
type Appliances interface {
	Start(ctx context.Context, userID int, p lifecycle.StartParams) (models.ActiveAppliance, error)
	Shutdown(ctx context.Context, userID int, id string) (models.UsageRecord, error)
	ForceStop(ctx context.Context, userID int, id string) (models.UsageRecord, error)
	Extend(ctx context.Context, userID int, id string, minutes int) (models.ActiveAppliance, error)
	ListActive(ctx context.Context, userID int) ([]models.ActiveAppliance, error)
	// Subscribe streams the user's lifecycle events until cancel is called.
	Subscribe(ctx context.Context, userID int, buffer int) (<-chan lifecycle.Event, func(), error)
}

// Monitoring exposes the computed dashboard view.
type Monitoring interface {
	Summary(ctx context.Context, userID int, days int) (models.Summary, error)
}

// History exposes finalized usage records and manual logging.
type History interface {
	List(ctx context.Context, userID int, f HistoryFilter) ([]models.UsageRecord, error)
	Log(ctx context.Context, userID int, p lifecycle.LogParams) (models.UsageRecord, error)
}

type Alerts interface {
	List(ctx context.Context, userID int) ([]models.PersistentAlert, error)
	Dismiss(ctx context.Context, userID int, alertID string) error
}

type Settings interface {
	Get(ctx context.Context, userID int) (models.Settings, error)
	Update(ctx context.Context, userID int, s models.Settings) (models.Settings, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ApplianceEvent, error)
}

// Simulator runs the background loop that makes simulated plugs fluctuate.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services. Methods shared by name (List) are
// reached through the embedded interface, e.g. s.History.List.
type Service struct {
	Appliances
	Monitoring
	History
	Alerts
	Settings
	EventLog
	Simulator
	Authorization
}

// NewService wires the repository layer and the session registry into
// concrete services.
func NewService(repos *repository.Repository, sessions *Sessions, auth AuthConfig, sim SimulatorConfig) *Service {
	return &Service{
		Appliances:    NewApplianceService(sessions),
		Monitoring:    NewMonitoringService(sessions),
		History:       NewHistoryService(sessions),
		Alerts:        NewAlertService(sessions),
		Settings:      NewSettingsService(sessions),
		EventLog:      NewEventLogService(repos.EventRepo),
		Simulator:     NewSimulatorService(sessions, sim),
		Authorization: NewAuthService(repos.Auth, repos.UserData, auth),
	}
}
