package handlers

import (
	"net/http"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/middleware"
	"hiring_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	*BaseHandler
	boardService services.BoardService
}

func NewBoardHandler(base *BaseHandler, boardService services.BoardService) *BoardHandler {
	return &BoardHandler{
		BaseHandler:  base,
		boardService: boardService,
	}
}

// RegisterRoutes - только для Board Member
func (h *BoardHandler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	board := rg.Group("/board")
	board.Use(guards.Auth, middleware.RequirePermission(auth.PermBoardRead))
	{
		board.GET("/candidates", h.GetCandidates)
		board.GET("/stats", h.GetStats)
		board.GET("/timeline", h.GetTimeline)
	}
}

func (h *BoardHandler) GetCandidates(c *gin.Context) {
	response, err := h.boardService.GetCandidates(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetStats(c *gin.Context) {
	response, err := h.boardService.GetStats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetTimeline(c *gin.Context) {
	response, err := h.boardService.GetTimeline(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
