package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"ecogo/internal/models"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	// generated id and timestamp are unknown, the rest is matched exactly
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO appliance_events (id, user_id, occurred_at, type, message, meta)`)).
		WithArgs(sqlmock.AnyArg(), 7, sqlmock.AnyArg(),
			"START", "kettle started",
			`{"a":1}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.ApplianceEvent{
		UserID:      7,
		Type:        "  start ",
		Description: "kettle started",
		Metadata:    map[string]any{"a": 1},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_FormatsGivenTimeAsUTC(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, ist)

	mock.ExpectExec("INSERT INTO appliance_events").
		WithArgs("ev-1", 3, "2025-03-01 04:30:00", "AUTO_SHUTDOWN", "auto", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.ApplianceEvent{
		EventID:     "ev-1",
		UserID:      3,
		OccurredAt:  at,
		Type:        "AUTO_SHUTDOWN",
		Description: "auto",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO appliance_events").
		WillReturnError(errors.New("down"))

	err = repo.Append(ctx(t), models.ApplianceEvent{
		UserID:      1,
		Type:        "start",
		Description: "x",
		Metadata:    map[string]string{"k": "v"},
	})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows([]string{"id", "user_id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", 5, now, "START", "m1", string(js)).
		AddRow("2", 5, now.Add(time.Hour), "SHUTDOWN", "m2", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, occurred_at, type, message, meta FROM appliance_events WHERE user_id = ? ORDER BY occurred_at ASC`)).
		WithArgs(5).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 5, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].EventID != "1" || got[1].EventID != "2" || got[0].UserID != 5 {
		t.Fatalf("unexpected rows: %+v", got)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	typ := " auto_shutdown " // normalized to AUTO_SHUTDOWN

	query := `SELECT id, user_id, occurred_at, type, message, meta FROM appliance_events WHERE user_id = ? AND occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC`

	rows := sqlmock.NewRows([]string{"id", "user_id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", 9, from, "AUTO_SHUTDOWN", "b", nil).
		AddRow("3", 9, to, "AUTO_SHUTDOWN", "c", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(9, "2025-01-01 11:00:00", "2025-01-01 12:00:00", "AUTO_SHUTDOWN").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 9, from, to, typ)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "occurred_at", "type", "message", "meta"}).
		// occurred_at wrong type to force scan error
		AddRow("x", 1, 123, "START", "msg", nil)

	mock.ExpectQuery("SELECT id, user_id, occurred_at").
		WillReturnRows(rows)

	_, err = repo.List(ctx(t), 1, time.Time{}, time.Time{}, "")
	if err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
