package reader

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
	"github.com/magabrotheeeer/bakery-admin/internal/services/auth"
)

// MockOverviewRepository реализует интерфейс OverviewRepository
type MockOverviewRepository struct {
	mock.Mock
}

func (m *MockOverviewRepository) ListUserOverview(ctx context.Context) ([]*models.UserOverviewRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserOverviewRow), args.Error(1)
}

func (m *MockOverviewRepository) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockOverviewRepository) ListSubscriptionRecords(ctx context.Context) ([]*models.SubscriptionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionRecord), args.Error(1)
}

// MockCache реализует интерфейс Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if rows, ok := args.Get(2).([]*models.UserOverviewRow); ok {
		*(result.(*[]*models.UserOverviewRow)) = rows
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func newService(repo *MockOverviewRepository, c *MockCache) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewService(repo, c, logger)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 13, 45, 12, 0, time.UTC)
	}
	return svc
}

var adminSession = auth.Session{Email: "admin@bakery.com", Role: "admin", UserUID: "admin-uid"}

func date(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestListUsers_ForbiddenForNonAdmin(t *testing.T) {
	repo := new(MockOverviewRepository)
	c := new(MockCache)
	svc := newService(repo, c)

	_, err := svc.ListUsers(context.Background(),
		auth.Session{Email: "u@x.com", Role: "user", UserUID: "uid-9"})

	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	repo.AssertNotCalled(t, "ListUserOverview", mock.Anything)
	c.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestListUsers_CacheHitSkipsStorage(t *testing.T) {
	repo := new(MockOverviewRepository)
	c := new(MockCache)
	svc := newService(repo, c)

	cached := []*models.UserOverviewRow{{UID: "uid-1", FullName: "Ana Silva", Status: "ativo"}}
	c.On("Get", "admin:users:overview", mock.Anything).Return(true, nil, cached)

	got, err := svc.ListUsers(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	repo.AssertNotCalled(t, "ListUserOverview", mock.Anything)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestListUsers_CacheMissReadsAggregatedQuery(t *testing.T) {
	repo := new(MockOverviewRepository)
	c := new(MockCache)
	svc := newService(repo, c)

	rows := []*models.UserOverviewRow{
		{UID: "uid-1", FullName: "Ana Silva", Status: "ativo"},
		{UID: "uid-2", FullName: "Bruno Costa", Status: "inativo"},
	}
	c.On("Get", "admin:users:overview", mock.Anything).Return(false, nil, nil)
	repo.On("ListUserOverview", mock.Anything).Return(rows, nil)
	c.On("Set", "admin:users:overview", rows, overviewTTL).Return(nil)

	got, err := svc.ListUsers(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	c.AssertExpectations(t)
}

func TestListUsers_FallbackJoinOnPrimaryFailure(t *testing.T) {
	repo := new(MockOverviewRepository)
	c := new(MockCache)
	svc := newService(repo, c)

	c.On("Get", mock.Anything, mock.Anything).Return(false, nil, nil)
	repo.On("ListUserOverview", mock.Anything).Return(nil, errors.New("function missing"))
	repo.On("ListProfiles", mock.Anything).Return([]*models.Profile{
		{UID: "uid-1", FullName: "Ana Silva", Email: "a@x.com",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{UID: "uid-2", FullName: "Bruno Costa", Email: "b@x.com",
			CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{UID: "uid-3", FullName: "Clara Lima", Email: "c@x.com",
			CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)
	repo.On("ListSubscriptionRecords", mock.Anything).Return([]*models.SubscriptionRecord{
		{UserUID: "uid-1", Plan: "Mensal", PaymentDate: date("2024-06-01"), ExpiryDate: date("2024-07-01")},
		{UserUID: "uid-2", Plan: "Mensal", ExpiryDate: date("2024-06-15")},
	}, nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.ListUsers(context.Background(), adminSession)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Дата истечения позже текущего дня
	assert.Equal(t, "ativo", got[0].Status)
	assert.Equal(t, "Mensal", got[0].Plan)
	assert.Equal(t, "2024-06-01", got[0].PaymentDate)
	// Истекает сегодня: правило витрины требует строго позже
	assert.Equal(t, "inativo", got[1].Status)
	// Профиль без записи подписки
	assert.Equal(t, "inativo", got[2].Status)
	assert.Empty(t, got[2].Plan)
}

func TestListUsers_FallbackFailureYieldsEmptyList(t *testing.T) {
	repo := new(MockOverviewRepository)
	c := new(MockCache)
	svc := newService(repo, c)

	c.On("Get", mock.Anything, mock.Anything).Return(false, nil, nil)
	repo.On("ListUserOverview", mock.Anything).Return(nil, errors.New("db down"))
	repo.On("ListProfiles", mock.Anything).Return(nil, errors.New("db down"))
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.ListUsers(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
