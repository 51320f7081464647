package middleware

import (
	"strings"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/models"
	"hiring_backend/pkg/apperrors"
	"hiring_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminCookieName - http-only cookie с токеном админки
const AdminCookieName = "admin_token"

// UserAuthenticator - проверка токена сотрудника (реализует services.AuthService)
type UserAuthenticator interface {
	Authenticate(db *gorm.DB, token string) (*models.User, error)
}

// AdminAuthenticator - проверка токена админа (реализует services.AdminService)
type AdminAuthenticator interface {
	Authenticate(db *gorm.DB, token string) (*models.Admin, error)
}

// AuthMiddleware - middleware проверки JWT. Токен берется из заголовка Authorization,
// для websocket допускается query-параметр token.
func AuthMiddleware(authenticator UserAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("No token, authorization denied"))
			c.Abort()
			return
		}

		user, err := authenticator.Authenticate(requestDB(c), token)
		if err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.RoleKey, user.Designation)
		c.Set(contextkeys.CurrentUserKey, user)

		ctx := logger.WithActor(c.Request.Context(), user.ID, string(user.Designation))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminAuthMiddleware - токен админа из cookie admin_token или заголовка Authorization
func AdminAuthMiddleware(authenticator AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Admin authentication required"))
			c.Abort()
			return
		}

		admin, err := authenticator.Authenticate(requestDB(c), token)
		if err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(contextkeys.AdminIDKey, admin.ID)
		c.Set(contextkeys.CurrentAdmin, admin)

		ctx := logger.WithActor(c.Request.Context(), admin.ID, "Admin")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles - middleware для проверки нескольких возможных ролей
func RequireRoles(roles ...models.Designation) gin.HandlerFunc {
	roleSet := make(map[models.Designation]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" || !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission пропускает роли, у которых есть хотя бы одно из разрешений
func RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasAnyPermission(string(GetRole(c)), permissions...) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func GetRole(c *gin.Context) models.Designation {
	v, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return ""
	}
	role, _ := v.(models.Designation)
	return role
}

func GetAdminID(c *gin.Context) string {
	return c.GetString(contextkeys.AdminIDKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// requestDB - *gorm.DB из DBMiddleware, привязанный к context запроса
func requestDB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(string(contextkeys.DBContextKey)); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db.WithContext(c.Request.Context())
		}
	}
	return nil
}

// Guards - готовые middleware, которые хэндлеры навешивают на свои группы
type Guards struct {
	Auth      gin.HandlerFunc
	Admin     gin.HandlerFunc
	AuthLimit gin.HandlerFunc
}
