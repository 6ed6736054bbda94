package service

import (
	"context"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
)

// ApplianceService routes lifecycle commands to the user's manager.
type ApplianceService struct {
	sessions *Sessions
}

func NewApplianceService(sessions *Sessions) *ApplianceService {
	return &ApplianceService{sessions: sessions}
}

func (s *ApplianceService) Start(ctx context.Context, userID int, p lifecycle.StartParams) (models.ActiveAppliance, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.ActiveAppliance{}, err
	}
	return m.Start(ctx, p)
}

func (s *ApplianceService) Shutdown(ctx context.Context, userID int, id string) (models.UsageRecord, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.UsageRecord{}, err
	}
	return m.Shutdown(ctx, id)
}

func (s *ApplianceService) ForceStop(ctx context.Context, userID int, id string) (models.UsageRecord, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.UsageRecord{}, err
	}
	return m.ForceStop(ctx, id)
}

func (s *ApplianceService) Extend(ctx context.Context, userID int, id string, minutes int) (models.ActiveAppliance, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.ActiveAppliance{}, err
	}
	return m.Extend(ctx, id, minutes)
}

func (s *ApplianceService) ListActive(ctx context.Context, userID int) ([]models.ActiveAppliance, error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.ListActive(), nil
}

func (s *ApplianceService) Subscribe(ctx context.Context, userID int, buffer int) (<-chan lifecycle.Event, func(), error) {
	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := m.Subscribe(buffer)
	return ch, cancel, nil
}
