package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecogo/internal/models"
)

type UserDataSQLite struct {
	db *sql.DB
}

func NewUserDataSQLite(db *sql.DB) *UserDataSQLite {
	return &UserDataSQLite{db: db}
}

var _ UserDataRepo = (*UserDataSQLite)(nil)

const (
	upsertUserDataSQL = `
		INSERT INTO user_data (user_id, usage_records, active_appliances, persistent_alerts, settings, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			usage_records=excluded.usage_records,
			active_appliances=excluded.active_appliances,
			persistent_alerts=excluded.persistent_alerts,
			settings=excluded.settings,
			updated_at=excluded.updated_at
	`

	selectUserDataSQL = `
		SELECT usage_records, active_appliances, persistent_alerts, settings, updated_at
		FROM user_data WHERE user_id=?
	`

	selectUserIDsSQL = `SELECT user_id FROM user_data ORDER BY user_id ASC`
)

// marshalColumn converts v to a JSON string for a TEXT column.
func marshalColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalColumn parses a JSON TEXT column; empty or NULL leaves dst untouched.
func unmarshalColumn(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}

// Save replaces the user's snapshot.
func (r *UserDataSQLite) Save(ctx context.Context, userID int, data models.UserData) error {
	records, err := marshalColumn(data.UsageRecords)
	if err != nil {
		return fmt.Errorf("marshal usage records: %w", err)
	}
	active, err := marshalColumn(data.ActiveAppliances)
	if err != nil {
		return fmt.Errorf("marshal active appliances: %w", err)
	}
	alerts, err := marshalColumn(data.PersistentAlerts)
	if err != nil {
		return fmt.Errorf("marshal persistent alerts: %w", err)
	}
	settings, err := marshalColumn(data.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tsUTC := data.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	if _, err := r.db.ExecContext(ctx, upsertUserDataSQL,
		userID,
		records,
		active,
		alerts,
		settings,
		tsUTC,
	); err != nil {
		return fmt.Errorf("upsert user data %d: %w", userID, err)
	}
	return nil
}

// Load fetches the user's snapshot. A user with no row yet gets zero-value data.
func (r *UserDataSQLite) Load(ctx context.Context, userID int) (models.UserData, error) {
	row := r.db.QueryRowContext(ctx, selectUserDataSQL, userID)

	var (
		d                                 models.UserData
		records, active, alerts, settings sql.NullString
	)
	if err := row.Scan(&records, &active, &alerts, &settings, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserData{}, nil // no data yet
		}
		return models.UserData{}, fmt.Errorf("select user data %d: %w", userID, err)
	}

	for _, c := range []struct {
		name string
		src  sql.NullString
		dst  any
	}{
		{"usage_records", records, &d.UsageRecords},
		{"active_appliances", active, &d.ActiveAppliances},
		{"persistent_alerts", alerts, &d.PersistentAlerts},
		{"settings", settings, &d.Settings},
	} {
		if err := unmarshalColumn(c.src, c.dst); err != nil {
			return models.UserData{}, fmt.Errorf("decode %s for user %d: %w", c.name, userID, err)
		}
	}
	d.UpdatedAt = d.UpdatedAt.UTC()

	return d, nil
}

// UserIDs lists every user that has a stored snapshot.
func (r *UserDataSQLite) UserIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, selectUserIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("select user ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
