package repository

import (
	"context"
	"database/sql"
	"time"

	"ecogo/internal/models"
)

type Authorization interface {
	Create(email, displayName, hash string) (int, error)
	GetByEmail(email string) (*models.User, error)
}

// UserDataRepo persists one snapshot per user. Save replaces the whole
// snapshot; Load of an unknown user returns a zero-value UserData.
type UserDataRepo interface {
	Load(ctx context.Context, userID int) (models.UserData, error)
	Save(ctx context.Context, userID int, data models.UserData) error
	UserIDs(ctx context.Context) ([]int, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ApplianceEvent) error
	List(ctx context.Context, userID int, from, to time.Time, typ string) ([]models.ApplianceEvent, error)
}

type Repository struct {
	UserData  UserDataRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return NewRepositoryWithStore(db, NewUserDataSQLite(db))
}

// NewRepositoryWithStore keeps users and events in SQLite but lets the
// snapshot store live elsewhere (Firestore).
func NewRepositoryWithStore(db *sql.DB, store UserDataRepo) *Repository {
	return &Repository{
		UserData:  store,
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
