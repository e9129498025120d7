package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/middleware"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// AdvanceHandler serves /api/advance-requests
type AdvanceHandler struct {
	advanceService *services.AdvanceService
}

// NewAdvanceHandler creates an AdvanceHandler
func NewAdvanceHandler(as *services.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: as}
}

// Create handles POST /api/advance-requests
func (h *AdvanceHandler) Create(c *gin.Context) {
	var input models.AdvanceRequestInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.advanceService.Create(c.Request.Context(), middleware.CurrentCaller(c), input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req.View())
}

// List handles GET /api/advance-requests
func (h *AdvanceHandler) List(c *gin.Context) {
	requests, err := h.advanceService.List(c.Request.Context(), middleware.CurrentCaller(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	views := make([]models.AdvanceRequestView, 0, len(requests))
	for i := range requests {
		views = append(views, requests[i].View())
	}
	c.JSON(http.StatusOK, views)
}

// Get handles GET /api/advance-requests/:id
func (h *AdvanceHandler) Get(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	req, err := h.advanceService.Get(c.Request.Context(), middleware.CurrentCaller(c), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.View())
}

// Update handles PUT /api/advance-requests/:id
func (h *AdvanceHandler) Update(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var input models.AdvanceRequestInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.advanceService.Update(c.Request.Context(), id, input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.View())
}

// SetStatus handles PATCH /api/advance-requests/:id/status
func (h *AdvanceHandler) SetStatus(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var input models.StatusInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.advanceService.SetStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.View())
}

// Delete handles DELETE /api/advance-requests/:id
func (h *AdvanceHandler) Delete(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	if err := h.advanceService.Delete(c.Request.Context(), id); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, "advance request deleted")
}
