package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/middleware"
	"hiring_backend/internal/services"
	"hiring_backend/internal/services/dto"
	"hiring_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	*BaseHandler
	candidateService services.CandidateService
	maxUploadSize    int64
}

func NewCandidateHandler(base *BaseHandler, candidateService services.CandidateService, maxUploadSize int64) *CandidateHandler {
	return &CandidateHandler{
		BaseHandler:      base,
		candidateService: candidateService,
		maxUploadSize:    maxUploadSize,
	}
}

func (h *CandidateHandler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	candidates := rg.Group("/candidates")
	candidates.Use(guards.Auth)
	{
		candidates.POST("", middleware.RequirePermission(auth.PermCandidatesCreate), h.CreateCandidate)
		candidates.GET("", middleware.RequirePermission(auth.PermCandidatesReadAll, auth.PermCandidatesReadAssigned), h.ListCandidates)
		candidates.GET("/:id", middleware.RequirePermission(auth.PermCandidatesReadAll, auth.PermCandidatesReadAssigned), h.GetCandidate)
		candidates.PUT("/:id", middleware.RequirePermission(auth.PermCandidatesUpdate), h.UpdateCandidate)
		candidates.DELETE("/:id", middleware.RequirePermission(auth.PermCandidatesDelete, auth.PermCandidatesDeleteOwn), h.DeleteCandidate)
	}
}

// CreateCandidate godoc
// @Summary Создание кандидата (multipart: поля + image + resume)
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} dto.CandidateResponse
// @Router /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCandidateRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}
	req.CreatedByID = userID

	image, err := h.readFormFile(c, "image")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	resume, err := h.readFormFile(c, "resume")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.candidateService.CreateCandidate(h.GetDB(c), &req, image, resume)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	userID, role, ok := h.GetCurrentActor(c)
	if !ok {
		return
	}

	response, err := h.candidateService.ListCandidates(h.GetDB(c), userID, role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	userID, role, ok := h.GetCurrentActor(c)
	if !ok {
		return
	}

	response, err := h.candidateService.GetCandidate(h.GetDB(c), userID, role, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	var req dto.UpdateCandidateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.candidateService.UpdateCandidate(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	userID, role, ok := h.GetCurrentActor(c)
	if !ok {
		return
	}

	response, err := h.candidateService.DeleteCandidate(h.GetDB(c), userID, role, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// readFormFile читает файл формы в память, не больше maxUploadSize+1 байт.
// Отсутствующий файл - nil без ошибки (решает сервис).
func (h *CandidateHandler) readFormFile(c *gin.Context, field string) (*dto.UploadedFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid %s upload", field))
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	size := header.Size
	if int64(len(data)) > size {
		size = int64(len(data))
	}

	return &dto.UploadedFile{
		Field:    field,
		Filename: header.Filename,
		Size:     size,
		Data:     data,
	}, nil
}
