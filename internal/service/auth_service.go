package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
	"ecogo/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrNoSigningKey    = errors.New("auth signing key is not configured")
)

// AuthConfig carries the JWT settings.
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// AuthService handles user auth logic
type AuthService struct {
	authRepo repository.Authorization
	store    repository.UserDataRepo
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService builds the service. store may be nil, in which case no
// initial user data is written at sign-up.
func NewAuthService(repo repository.Authorization, store repository.UserDataRepo, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		authRepo: repo,
		store:    store,
		key:      []byte(cfg.SigningKey),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SignUp hashes password, creates a new user and seeds their data with
// default settings. When only the seeding fails the new id is returned with
// an error wrapping lifecycle.ErrPersistence.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (int, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, fmt.Errorf("%w: email is required", lifecycle.ErrInvalidInput)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", lifecycle.ErrInvalidInput, err)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	id, err := s.authRepo.Create(email, displayName, hash)
	if err != nil {
		return 0, err
	}
	if s.store == nil {
		return id, nil
	}

	initial := models.UserData{
		UsageRecords:     []models.UsageRecord{},
		ActiveAppliances: []models.ActiveAppliance{},
		PersistentAlerts: []models.PersistentAlert{},
		Settings:         models.DefaultSettings(),
		UpdatedAt:        s.now().UTC(),
	}
	if err := s.store.Save(ctx, id, initial); err != nil {
		return id, fmt.Errorf("%w: seed user %d: %w", lifecycle.ErrPersistence, id, err)
	}
	return id, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(email, password string) (string, error) {
	u, err := s.authRepo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(u.ID)
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	if len(s.key) == 0 {
		return 0, ErrNoSigningKey
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// issueToken signs a JWT for a user.
func (s *AuthService) issueToken(userID int) (string, error) {
	if len(s.key) == 0 {
		return "", ErrNoSigningKey
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString(s.key)
}
