package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"ecogo/internal/models"
	"ecogo/internal/repository"
)

func TestUserDataSQLite_Save_SetsUTCAndMarshalsColumns_WhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	data := models.UserData{
		ActiveAppliances: []models.ActiveAppliance{{ID: "a1", Name: "Kettle", State: models.StateRunning}},
		Settings:         models.Settings{ElectricityRate: 8.5},
		// UpdatedAt is zero
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})
	hasKettle := sqlmockArgumentFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		return ok && strings.Contains(s, `"name":"Kettle"`) && strings.Contains(s, `"state":"RUNNING"`)
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_data")).
		WithArgs(
			4,
			"null", // nil usage records
			hasKettle,
			"null",
			sqlmock.AnyArg(),
			isUTCRecent,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), 4, data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserDataSQLite_Save_PreservesGivenTimeButConvertsToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	ist := time.FixedZone("IST", 5*3600+1800)
	original := time.Date(2023, 10, 5, 12, 34, 56, 0, ist)
	expectedUTC := original.UTC()

	data := models.UserData{
		UsageRecords:     []models.UsageRecord{},
		PersistentAlerts: []models.PersistentAlert{},
		UpdatedAt:        original,
	}

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok {
			return false
		}
		return tm.Equal(expectedUTC) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_data")).
		WithArgs(1, "[]", "null", "[]", sqlmock.AnyArg(), isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), 1, data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserDataSQLite_Save_ExecErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	dbErr := errors.New("db down")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_data")).
		WillReturnError(dbErr)

	err = repo.Save(context.Background(), 2, models.UserData{})
	if !errors.Is(err, dbErr) {
		t.Fatalf("Save() expected wrapped db error, got %v", err)
	}
	if !strings.Contains(err.Error(), "upsert user data 2") {
		t.Fatalf("Save() error lacks context: %v", err)
	}
}

func TestUserDataSQLite_Load_NoRowsReturnsZeroValueAndNilError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT usage_records, active_appliances, persistent_alerts, settings, updated_at")).
		WithArgs(11).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background(), 11)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, models.UserData{}) {
		t.Fatalf("Load() expected zero data, got: %+v", got)
	}
}

func TestUserDataSQLite_Load_HappyPath_UnmarshalsAndUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	cols := []string{"usage_records", "active_appliances", "persistent_alerts", "settings", "updated_at"}
	ist := time.FixedZone("IST", 5*3600+1800)
	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, ist)

	rows := sqlmock.NewRows(cols).
		AddRow(
			`[{"id":"r1","name":"Fan","power_watts":60,"energy_kwh":0.06,"termination":"manual"}]`,
			`[{"id":"a1","name":"Heater","power_watts":2000,"state":"RUNNING"}]`,
			`[{"id":"al1","severity":"warning","title":"Auto-shutdown"}]`,
			`{"electricity_rate":7.25,"currency":"$"}`,
			nonUTC,
		)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT usage_records, active_appliances, persistent_alerts, settings, updated_at")).
		WithArgs(3).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background(), 3)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if len(got.UsageRecords) != 1 || got.UsageRecords[0].Termination != models.TerminationManual {
		t.Fatalf("Load() usage records: %+v", got.UsageRecords)
	}
	if len(got.ActiveAppliances) != 1 || got.ActiveAppliances[0].PowerWatts != 2000 {
		t.Fatalf("Load() active appliances: %+v", got.ActiveAppliances)
	}
	if len(got.PersistentAlerts) != 1 || got.PersistentAlerts[0].Severity != models.SeverityWarning {
		t.Fatalf("Load() alerts: %+v", got.PersistentAlerts)
	}
	if got.Settings.ElectricityRate != 7.25 || got.Settings.Currency != "$" {
		t.Fatalf("Load() settings: %+v", got.Settings)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("Load() UpdatedAt not UTC: %v (%v)", got.UpdatedAt, got.UpdatedAt.Location())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserDataSQLite_Load_InvalidJSON_ReturnsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	cols := []string{"usage_records", "active_appliances", "persistent_alerts", "settings", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow(nil, `{not: "an array"}`, nil, nil, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT usage_records")).
		WithArgs(1).
		WillReturnRows(rows)

	_, err = repo.Load(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "active_appliances") {
		t.Fatalf("Load() expected decode error naming the column, got %v", err)
	}
}

func TestUserDataSQLite_UserIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewUserDataSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM user_data")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1).AddRow(4).AddRow(9))

	ids, err := repo.UserIDs(context.Background())
	if err != nil {
		t.Fatalf("UserIDs() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{1, 4, 9}) {
		t.Fatalf("UserIDs() = %v", ids)
	}
}

// Helpers

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
