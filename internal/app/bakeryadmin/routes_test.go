package bakeryadmin_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bakery-admin/internal/app/bakeryadmin"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
	authservice "github.com/magabrotheeeer/bakery-admin/internal/services/auth"
	provisionservice "github.com/magabrotheeeer/bakery-admin/internal/services/provision"
	readerservice "github.com/magabrotheeeer/bakery-admin/internal/services/reader"
	statusservice "github.com/magabrotheeeer/bakery-admin/internal/services/status"
)

// IdentityStub отдает учетную запись с заданной датой окончания подписки.
type IdentityStub struct {
	expiryDate string
}

func (s *IdentityStub) GetIdentity(_ context.Context, uid string) (*models.UserIdentity, error) {
	return &models.UserIdentity{
		UID: uid,
		Metadata: models.Metadata{
			FullName:    "Ana Silva",
			Role:        models.RoleUser,
			Plan:        "Mensal",
			PaymentDate: "2024-01-01",
			ExpiryDate:  s.expiryDate,
		},
	}, nil
}

func newRouter(maker jwt.Maker, expiryDate string) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	authService := authservice.NewService(nil, maker)
	statusService := statusservice.NewService(&IdentityStub{expiryDate: expiryDate}, logger)
	provisionService := provisionservice.NewService(nil, nil, nil, nil, nil, nil, logger, "Bakery Manager")
	readerService := readerservice.NewService(nil, nil, logger)

	router := chi.NewRouter()
	bakeryadmin.RegisterRoutes(router, logger, authService, statusService, provisionService, readerService)
	return router
}

func TestRoutes_PreflightAdminUsers(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)
	router := newRouter(maker, "2999-01-01")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/admin/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Empty(t, rec.Body.String())
}

func TestRoutes_ExpiredSubscriptionDeniedOnAdminGroup(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)
	router := newRouter(maker, "2000-01-01")

	token, err := maker.GenerateToken("user@bakery.com", models.RoleUser, "uid-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "subscription expired")
}

func TestRoutes_ActiveNonAdminStoppedByRoleGuard(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)
	router := newRouter(maker, "2999-01-01")

	token, err := maker.GenerateToken("user@bakery.com", models.RoleUser, "uid-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin role required")
}
