package service

import (
	"context"
	"fmt"
	"sort"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
)

// HistoryService reads and appends finalized usage records.
type HistoryService struct {
	sessions *Sessions
}

func NewHistoryService(sessions *Sessions) *HistoryService {
	return &HistoryService{sessions: sessions}
}

// List returns the user's records whose end time falls in the filter range,
// oldest first.
func (s *HistoryService) List(ctx context.Context, userID int, f HistoryFilter) ([]models.UsageRecord, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return nil, fmt.Errorf("%w: %w", lifecycle.ErrInvalidInput, errInvalidTimeRange)
	}
	if f.Termination != "" && !f.Termination.Valid() {
		return nil, fmt.Errorf("%w: unknown termination %q", lifecycle.ErrInvalidInput, f.Termination)
	}

	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.UsageRecord, 0)
	for _, r := range m.Snapshot().UsageRecords {
		if !f.From.IsZero() && r.EndTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.EndTime.After(f.To) {
			continue
		}
		if f.Termination != "" && r.Termination != f.Termination {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// Log adds a manual usage entry.
func (s *HistoryService) Log(ctx context.Context, userID int, p lifecycle.LogParams) (models.UsageRecord, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.UsageRecord{}, err
	}
	return m.RecordUsage(ctx, p)
}

// AlertService lists and dismisses persistent alerts.
type AlertService struct {
	sessions *Sessions
}

func NewAlertService(sessions *Sessions) *AlertService {
	return &AlertService{sessions: sessions}
}

func (s *AlertService) List(ctx context.Context, userID int) ([]models.PersistentAlert, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.Alerts(), nil
}

func (s *AlertService) Dismiss(ctx context.Context, userID int, alertID string) error {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return err
	}
	return m.DismissAlert(ctx, alertID)
}

// SettingsService reads and replaces user settings.
type SettingsService struct {
	sessions *Sessions
}

func NewSettingsService(sessions *Sessions) *SettingsService {
	return &SettingsService{sessions: sessions}
}

func (s *SettingsService) Get(ctx context.Context, userID int) (models.Settings, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.Settings{}, err
	}
	return m.Settings(), nil
}

func (s *SettingsService) Update(ctx context.Context, userID int, in models.Settings) (models.Settings, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.Settings{}, err
	}
	return m.UpdateSettings(ctx, in)
}
