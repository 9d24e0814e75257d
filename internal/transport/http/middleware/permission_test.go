package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/usecase"
)

type permissionRepoStub struct {
	keysByUser map[string][]string
	err        error
}

func (s *permissionRepoStub) CreateMany(context.Context, []domain.Permission) error { return nil }
func (s *permissionRepoStub) List(context.Context) ([]domain.Permission, error)     { return nil, nil }
func (s *permissionRepoStub) ListKeys(context.Context) ([]string, error)            { return nil, nil }
func (s *permissionRepoStub) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	return ids, nil
}
func (s *permissionRepoStub) ListByRole(context.Context, string) ([]domain.Permission, error) {
	return nil, nil
}

func (s *permissionRepoStub) KeysByUser(_ context.Context, userID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.keysByUser[userID], nil
}

func permissionTestRouter(t *testing.T, repo *permissionRepoStub, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authz := usecase.NewAuthorizationService(repo, nil, nil)

	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if userID != "" {
				c.Set(UserIDKey, userID)
			}
			c.Next()
		},
		RequirePermission(authz, "admin.users.read"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func TestRequirePermissionAllowsHolder(t *testing.T) {
	repo := &permissionRepoStub{keysByUser: map[string][]string{
		"user-1": {"admin.users.read", "admin.roles.read"},
	}}
	router := permissionTestRouter(t, repo, "user-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequirePermissionForbidsNonHolder(t *testing.T) {
	repo := &permissionRepoStub{keysByUser: map[string][]string{
		"user-1": {"admin.roles.read"},
	}}
	router := permissionTestRouter(t, repo, "user-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	router := permissionTestRouter(t, &permissionRepoStub{}, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("a missing identity must be unauthenticated, got %d", rec.Code)
	}
}

func TestRequirePermissionCheckFailure(t *testing.T) {
	repo := &permissionRepoStub{err: errors.New("connection refused")}
	router := permissionTestRouter(t, repo, "user-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("a failing check must not fall open or closed silently, got %d", rec.Code)
	}
}
