package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/password"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// MockIdentityRepository реализует интерфейс IdentityRepository
type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) GetIdentityByEmail(ctx context.Context, email string) (*models.UserIdentity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserIdentity), args.Error(1)
}

func testUser(t *testing.T, rawPassword string) *models.UserIdentity {
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	return &models.UserIdentity{
		UID:          "uid-1",
		Email:        "admin@bakery.com",
		PasswordHash: hash,
		Metadata:     models.Metadata{FullName: "Admin", Role: models.RoleAdmin},
	}
}

func TestService_Login_Success(t *testing.T) {
	repo := new(MockIdentityRepository)
	repo.On("GetIdentityByEmail", mock.Anything, "admin@bakery.com").
		Return(testUser(t, "correct_password"), nil)

	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	svc := NewService(repo, maker)

	token, role, err := svc.Login(context.Background(), "admin@bakery.com", "correct_password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleAdmin, role)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@bakery.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "uid-1", claims.UserUID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := new(MockIdentityRepository)
	repo.On("GetIdentityByEmail", mock.Anything, "admin@bakery.com").
		Return(testUser(t, "correct_password"), nil)

	svc := NewService(repo, jwt.NewJWTMaker("test_secret", 15*time.Minute))

	_, _, err := svc.Login(context.Background(), "admin@bakery.com", "wrong_password")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockIdentityRepository)
	repo.On("GetIdentityByEmail", mock.Anything, "ghost@bakery.com").
		Return(nil, apperr.ErrNotFound)

	svc := NewService(repo, jwt.NewJWTMaker("test_secret", 15*time.Minute))

	_, _, err := svc.Login(context.Background(), "ghost@bakery.com", "whatever")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestService_ResolveToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)
	svc := NewService(new(MockIdentityRepository), maker)

	token, err := maker.GenerateToken("admin@bakery.com", "admin", "uid-1")
	require.NoError(t, err)

	session, err := svc.ResolveToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin@bakery.com", session.Email)
	assert.Equal(t, "admin", session.Role)
	assert.Equal(t, "uid-1", session.UserUID)
}

func TestService_ResolveToken_Invalid(t *testing.T) {
	svc := NewService(new(MockIdentityRepository), jwt.NewJWTMaker("test_secret", 15*time.Minute))

	session, err := svc.ResolveToken(context.Background(), "garbage.token.value")
	assert.Nil(t, session)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}
