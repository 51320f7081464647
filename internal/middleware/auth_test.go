package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/models"
	"hiring_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubUsers map[string]*models.User

func (s stubUsers) Authenticate(_ *gorm.DB, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, apperrors.ErrInvalidToken
}

type stubAdmins map[string]*models.Admin

func (s stubAdmins) Authenticate(_ *gorm.DB, token string) (*models.Admin, error) {
	if a, ok := s[token]; ok {
		return a, nil
	}
	return nil, errors.New("boom")
}

func newUser(id string, d models.Designation) *models.User {
	u := &models.User{Designation: d, IsActive: true}
	u.ID = id
	return u
}

func serve(r *gin.Engine, method, path string, mutate func(*http.Request)) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	users := stubUsers{
		"hr-token":      newUser("hr-1", models.DesignationHR),
		"manager-token": newUser("m-1", models.DesignationManager),
	}

	r := gin.New()
	r.GET("/candidates", AuthMiddleware(users), RequirePermission(auth.PermCandidatesCreate), func(c *gin.Context) {
		assert.Equal(t, "hr-1", GetUserID(c))
		assert.Equal(t, models.DesignationHR, GetRole(c))
		c.Status(http.StatusOK)
	})
	r.GET("/ws", AuthMiddleware(users), func(c *gin.Context) { c.Status(http.StatusOK) })

	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
	}

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/candidates", nil))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/candidates", bearer("unknown")))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/candidates", bearer("manager-token")))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/candidates", bearer("hr-token")))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ws?token=manager-token", nil))
}

func TestAdminAuthMiddleware_CookieOrHeader(t *testing.T) {
	admin := &models.Admin{Name: "Root", IsActive: true}
	admin.ID = "admin-1"
	admins := stubAdmins{"admin-token": admin}

	r := gin.New()
	r.GET("/admin/me", AdminAuthMiddleware(admins), func(c *gin.Context) {
		assert.Equal(t, "admin-1", GetAdminID(c))
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin/me", nil))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "admin-token"})
	}))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer admin-token")
	}))
	// не-AppError превращается в 500
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/admin/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer other")
	}))
}

func TestRequireRoles(t *testing.T) {
	users := stubUsers{"board": newUser("b-1", models.DesignationBoardMember)}
	r := gin.New()
	r.GET("/board", AuthMiddleware(users), RequireRoles(models.DesignationBoardMember), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/hr", AuthMiddleware(users), RequireRoles(models.DesignationHR), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	bearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer board") }
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/board", bearer))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/hr", bearer))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://portal.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://portal.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
