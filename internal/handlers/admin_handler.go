package handlers

import (
	"net/http"
	"time"

	"hiring_backend/internal/middleware"
	"hiring_backend/internal/services"
	"hiring_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminCookieSettings - параметры cookie admin_token
type AdminCookieSettings struct {
	TTL    time.Duration
	Secure bool
}

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
	cookie       AdminCookieSettings
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, cookie AdminCookieSettings) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
		cookie:       cookie,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	admin := rg.Group("/admin")

	authGroup := admin.Group("/auth")
	{
		authGroup.POST("/login", guards.AuthLimit, h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", guards.Admin, h.Me)
		authGroup.GET("/email-status", guards.Admin, h.EmailStatus)
	}

	roles := admin.Group("/roles")
	roles.Use(guards.Admin)
	{
		roles.POST("", h.CreateRoleAssignment)
		roles.GET("/limits", h.GetRoleLimits)
	}
}

// Login godoc
// @Summary Вход в админ-портал (ставит cookie admin_token)
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Email и пароль"
// @Success 200 {object} dto.AdminAuthResponse
// @Router /admin/auth/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.adminService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, response.Token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AdminHandler) Me(c *gin.Context) {
	adminID, ok := h.GetAdminID(c)
	if !ok {
		return
	}

	admin, err := h.adminService.Me(h.GetDB(c), adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

func (h *AdminHandler) EmailStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.adminService.EmailStatus())
}

// CreateRoleAssignment godoc
// @Summary Приглашение на роль (с проверкой квоты)
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateRoleAssignmentRequest true "Email и роль"
// @Success 201 {object} dto.RoleAssignmentCreatedResponse
// @Router /admin/roles [post]
func (h *AdminHandler) CreateRoleAssignment(c *gin.Context) {
	adminID, ok := h.GetAdminID(c)
	if !ok {
		return
	}

	var req dto.CreateRoleAssignmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.adminService.CreateRoleAssignment(h.GetDB(c), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AdminHandler) GetRoleLimits(c *gin.Context) {
	response, err := h.adminService.GetRoleLimits(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
