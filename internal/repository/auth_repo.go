package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ecogo/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (email, display_name, password_hash) VALUES (?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, email, display_name, password_hash FROM users WHERE email = ?`
)

// normalizeEmail lowercases and trims so sign-in is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(email, displayName, passwordHash string) (int, error) {
	email = normalizeEmail(email)
	res, err := r.db.Exec(insertUserSQL, email, displayName, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	email = normalizeEmail(email)
	var u models.User
	err := r.db.QueryRow(selectUserByEmailSQL, email).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return &u, nil
}
