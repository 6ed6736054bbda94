package handlers

import (
	"context"
	"net/http"
	"time"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
	"ecogo/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpEmail string
	lastSignUpName  string
	lastSignUpPass  string
	lastGenEmail    string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) SignUp(_ context.Context, email, password, displayName string) (int, error) {
	m.lastSignUpEmail = email
	m.lastSignUpPass = password
	m.lastSignUpName = displayName
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(email, password string) (string, error) {
	m.lastGenEmail = email
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAppliances struct {
	appliance models.ActiveAppliance
	record    models.UsageRecord
	list      []models.ActiveAppliance
	err       error
	listErr   error
	events    chan lifecycle.Event

	lastUserID  int
	lastID      string
	lastStart   lifecycle.StartParams
	lastMinutes int
	canceled    bool
}

func (m *mockAppliances) Start(_ context.Context, userID int, p lifecycle.StartParams) (models.ActiveAppliance, error) {
	m.lastUserID, m.lastStart = userID, p
	return m.appliance, m.err
}
func (m *mockAppliances) Shutdown(_ context.Context, userID int, id string) (models.UsageRecord, error) {
	m.lastUserID, m.lastID = userID, id
	return m.record, m.err
}
func (m *mockAppliances) ForceStop(_ context.Context, userID int, id string) (models.UsageRecord, error) {
	m.lastUserID, m.lastID = userID, id
	return m.record, m.err
}
func (m *mockAppliances) Extend(_ context.Context, userID int, id string, minutes int) (models.ActiveAppliance, error) {
	m.lastUserID, m.lastID, m.lastMinutes = userID, id, minutes
	return m.appliance, m.err
}
func (m *mockAppliances) ListActive(_ context.Context, userID int) ([]models.ActiveAppliance, error) {
	m.lastUserID = userID
	return m.list, m.listErr
}
func (m *mockAppliances) Subscribe(_ context.Context, userID int, _ int) (<-chan lifecycle.Event, func(), error) {
	m.lastUserID = userID
	if m.events == nil {
		m.events = make(chan lifecycle.Event)
	}
	return m.events, func() { m.canceled = true }, nil
}

type mockMonitoring struct {
	summary  models.Summary
	err      error
	lastDays int
}

func (m *mockMonitoring) Summary(_ context.Context, _ int, days int) (models.Summary, error) {
	m.lastDays = days
	return m.summary, m.err
}

type mockHistory struct {
	records    []models.UsageRecord
	record     models.UsageRecord
	err        error
	lastFilter service.HistoryFilter
	lastLog    lifecycle.LogParams
}

func (m *mockHistory) List(_ context.Context, _ int, f service.HistoryFilter) ([]models.UsageRecord, error) {
	m.lastFilter = f
	return m.records, m.err
}
func (m *mockHistory) Log(_ context.Context, _ int, p lifecycle.LogParams) (models.UsageRecord, error) {
	m.lastLog = p
	return m.record, m.err
}

type mockAlerts struct {
	alerts    []models.PersistentAlert
	err       error
	dismissed string
}

func (m *mockAlerts) List(context.Context, int) ([]models.PersistentAlert, error) {
	return m.alerts, m.err
}
func (m *mockAlerts) Dismiss(_ context.Context, _ int, id string) error {
	m.dismissed = id
	return m.err
}

type mockSettings struct {
	settings models.Settings
	err      error
	last     models.Settings
}

func (m *mockSettings) Get(context.Context, int) (models.Settings, error) {
	return m.settings, m.err
}
func (m *mockSettings) Update(_ context.Context, _ int, s models.Settings) (models.Settings, error) {
	m.last = s
	return m.settings, m.err
}

type mockEventLog struct {
	resp       []models.ApplianceEvent
	err        error
	lastUserID int
	lastFrom   time.Time
	lastTo     time.Time
	lastType   string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.ApplianceEvent, error) {
	m.lastUserID = f.UserID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
