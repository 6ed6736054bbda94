package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
)

const (
	defaultSummaryDays = 7
	maxSummaryDays     = 90
	goalWarnPercent    = 80.0
	dateLayout         = "2006-01-02"
)

// MonitoringService computes the dashboard view from the user's snapshot.
type MonitoringService struct {
	sessions *Sessions
}

func NewMonitoringService(sessions *Sessions) *MonitoringService {
	return &MonitoringService{sessions: sessions}
}

// Summary reports today's consumption against the daily goal and the
// per-day totals of the last days calendar days, today included.
// Days are cut in the user's timezone. days == 0 means 7.
func (s *MonitoringService) Summary(ctx context.Context, userID int, days int) (models.Summary, error) {
	if days == 0 {
		days = defaultSummaryDays
	}
	if days < 1 || days > maxSummaryDays {
		return models.Summary{}, fmt.Errorf("%w: days must be between 1 and %d", lifecycle.ErrInvalidInput, maxSummaryDays)
	}

	m, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}
	data := m.Snapshot()
	settings := data.Settings.WithDefaults()
	loc, err := settings.Location()
	if err != nil {
		loc = time.UTC
	}

	now := s.sessions.Clock().Now().In(loc)
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	daily := make([]models.DailyUsage, days)
	index := make(map[string]int, days)
	for i := range daily {
		d := first.AddDate(0, 0, i).Format(dateLayout)
		daily[i].Date = d
		index[d] = i
	}

	for _, r := range data.UsageRecords {
		i, ok := index[r.EndTime.In(loc).Format(dateLayout)]
		if !ok {
			continue
		}
		daily[i].EnergyKwh += r.EnergyKwh
		daily[i].Cost += r.Cost
	}

	// Running appliances count toward today from midnight or their start.
	last := &daily[days-1]
	for _, a := range data.ActiveAppliances {
		from := a.StartTime
		if from.Before(today) {
			from = today
		}
		if !now.After(from) {
			continue
		}
		kwh := models.EnergyKwh(a.PowerWatts, now.Sub(from).Hours())
		last.EnergyKwh += kwh
		last.Cost += kwh * settings.ElectricityRate
	}

	out := models.Summary{
		GeneratedAt:      now.UTC(),
		TodayKwh:         round3(last.EnergyKwh),
		TodayCost:        round2(last.Cost),
		Currency:         settings.Currency,
		DailyGoalKwh:     settings.DailyGoalKwh,
		ActiveAppliances: len(data.ActiveAppliances),
		Daily:            daily,
	}
	for i := range out.Daily {
		out.Daily[i].EnergyKwh = round3(out.Daily[i].EnergyKwh)
		out.Daily[i].Cost = round2(out.Daily[i].Cost)
	}
	if settings.DailyGoalKwh > 0 {
		out.GoalProgress = math.Min(100, round2(out.TodayKwh/settings.DailyGoalKwh*100))
	}

	out.Alerts = goalAlerts(out.TodayKwh, settings.DailyGoalKwh, now.UTC())
	out.ActiveAlerts = len(data.PersistentAlerts) + len(out.Alerts)
	return out, nil
}

// goalAlerts derives the ephemeral alerts for today's consumption.
func goalAlerts(todayKwh, goalKwh float64, at time.Time) []models.Alert {
	if goalKwh <= 0 {
		return nil
	}
	switch pct := todayKwh / goalKwh * 100; {
	case todayKwh > goalKwh:
		return []models.Alert{{
			ID:       "daily-goal-exceeded",
			Severity: models.SeverityWarning,
			Title:    "Daily goal exceeded",
			Message:  fmt.Sprintf("Today's usage of %.2f kWh is above your goal of %.2f kWh.", todayKwh, goalKwh),
			At:       at,
		}}
	case pct >= goalWarnPercent:
		return []models.Alert{{
			ID:       "daily-goal-near",
			Severity: models.SeverityInfo,
			Title:    "Approaching daily goal",
			Message:  fmt.Sprintf("You have used %.0f%% of today's %.2f kWh goal.", pct, goalKwh),
			At:       at,
		}}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
