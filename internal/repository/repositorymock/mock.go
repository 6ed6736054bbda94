package repositorymock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ecogo/internal/models"
	"ecogo/internal/repository"
)

type MockUserData struct {
	mock.Mock
}

var _ repository.UserDataRepo = (*MockUserData)(nil)

func (m *MockUserData) Load(ctx context.Context, userID int) (models.UserData, error) {
	args := m.Called(ctx, userID)
	if len(args) > 0 {
		return args.Get(0).(models.UserData), args.Error(1)
	}
	return models.UserData{}, nil
}

func (m *MockUserData) Save(ctx context.Context, userID int, data models.UserData) error {
	args := m.Called(ctx, userID, data)
	return args.Error(0)
}

func (m *MockUserData) UserIDs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		ids, _ := args.Get(0).([]int)
		return ids, args.Error(1)
	}
	return nil, nil
}

type MockEvents struct {
	mock.Mock
}

var _ repository.EventRepo = (*MockEvents)(nil)

func (m *MockEvents) Append(ctx context.Context, e models.ApplianceEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEvents) List(ctx context.Context, userID int, from, to time.Time, typ string) ([]models.ApplianceEvent, error) {
	args := m.Called(ctx, userID, from, to, typ)
	evs, _ := args.Get(0).([]models.ApplianceEvent)
	return evs, args.Error(1)
}

type MockAuth struct {
	mock.Mock
}

var _ repository.Authorization = (*MockAuth)(nil)

func (m *MockAuth) Create(email, displayName, hash string) (int, error) {
	args := m.Called(email, displayName, hash)
	return args.Int(0), args.Error(1)
}

func (m *MockAuth) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
