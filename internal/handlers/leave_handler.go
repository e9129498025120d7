package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/middleware"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// LeaveHandler serves /api/leave-requests
type LeaveHandler struct {
	leaveService *services.LeaveService
}

// NewLeaveHandler creates a LeaveHandler
func NewLeaveHandler(ls *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: ls}
}

func leaveViews(requests []models.LeaveRequest) []models.LeaveRequestView {
	views := make([]models.LeaveRequestView, 0, len(requests))
	for i := range requests {
		views = append(views, requests[i].View())
	}
	return views
}

// Create handles POST /api/leave-requests
func (h *LeaveHandler) Create(c *gin.Context) {
	var input models.LeaveRequestInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.leaveService.Create(c.Request.Context(), middleware.CurrentCaller(c), input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req.View())
}

// List handles GET /api/leave-requests
func (h *LeaveHandler) List(c *gin.Context) {
	requests, err := h.leaveService.List(c.Request.Context(), middleware.CurrentCaller(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaveViews(requests))
}

// Get handles GET /api/leave-requests/:id
func (h *LeaveHandler) Get(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	req, err := h.leaveService.Get(c.Request.Context(), middleware.CurrentCaller(c), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.View())
}

// Update handles PUT /api/leave-requests/:id
func (h *LeaveHandler) Update(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var input models.LeaveRequestInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.leaveService.Update(c.Request.Context(), middleware.CurrentCaller(c), id, input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.View())
}

// SetStatus handles PATCH /api/leave-requests/:id/status
func (h *LeaveHandler) SetStatus(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var input models.StatusInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.leaveService.SetStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.View())
}

// Delete handles DELETE /api/leave-requests/:id
func (h *LeaveHandler) Delete(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	if err := h.leaveService.Delete(c.Request.Context(), id); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, "leave request deleted")
}
