package handlers

import (
	"net/http"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/middleware"
	"hiring_backend/internal/services"
	"hiring_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	*BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(base *BaseHandler, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       base,
		assignmentService: assignmentService,
	}
}

func (h *AssignmentHandler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	readers := middleware.RequirePermission(auth.PermAssignmentsReadAll, auth.PermAssignmentsReadOwn)

	assignments := rg.Group("/assignments")
	assignments.Use(guards.Auth)
	{
		assignments.POST("", middleware.RequirePermission(auth.PermAssignmentsCreate), h.CreateAssignment)
		assignments.GET("", readers, h.ListAssignments)
		assignments.GET("/stats/overview", readers, h.GetStats)
		assignments.POST("/test-email", middleware.RequirePermission(auth.PermAssignmentsTestEmail), h.SendTestEmail)
		assignments.GET("/:id", readers, h.GetAssignment)
		assignments.PUT("/:id", middleware.RequirePermission(auth.PermAssignmentsReview), h.UpdateAssignment)
		assignments.PUT("/:id/comments", middleware.RequirePermission(auth.PermAssignmentsComment), h.UpdateHRComments)
	}
}

// CreateAssignment godoc
// @Summary Назначение кандидата менеджеру
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.CreateAssignmentRequest true "Кандидат и менеджер"
// @Success 201 {object} dto.AssignmentCreatedResponse
// @Router /assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.assignmentService.CreateAssignment(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateAssignment godoc
// @Summary Отзыв менеджера и смена статуса
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "ID назначения"
// @Param request body dto.UpdateAssignmentRequest true "Изменяемые поля"
// @Success 200 {object} dto.AssignmentUpdatedResponse
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.assignmentService.UpdateAssignment(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	userID, role, ok := h.GetCurrentActor(c)
	if !ok {
		return
	}

	response, err := h.assignmentService.ListAssignments(h.GetDB(c), userID, role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	userID, role, ok := h.GetCurrentActor(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetAssignment(h.GetDB(c), userID, role, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) UpdateHRComments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateHRCommentsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.UpdateHRComments(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Comments added successfully",
		"assignment": assignment,
	})
}

func (h *AssignmentHandler) GetStats(c *gin.Context) {
	userID, role, ok := h.GetCurrentActor(c)
	if !ok {
		return
	}

	stats, err := h.assignmentService.GetStats(h.GetDB(c), userID, role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AssignmentHandler) SendTestEmail(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TestEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.assignmentService.SendTestEmail(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
