package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/server/http/dto"
)

// ProgressHandler manages milestone tracking endpoints.
type ProgressHandler struct {
	facade CommissionFacade
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(facade CommissionFacade) *ProgressHandler {
	return &ProgressHandler{facade: facade}
}

// Set handles POST /api/orders/:id/progress.
func (h *ProgressHandler) Set(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.ProducerID != CurrentActorID(c) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	state, err := h.facade.SetMilestone(c.Request.Context(), id, req.Milestone, req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}

	updatedAt := state.UpdatedAt
	c.JSON(http.StatusOK, dto.ProgressResponse{
		OrderID:    state.OrderID,
		Milestones: state.Milestones,
		UpdatedAt:  &updatedAt,
	})
}

// Get handles GET /api/orders/:id/progress. Readable in any lifecycle state
// so a terminal order's final milestones stay inspectable.
func (h *ProgressHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	actor := CurrentActorID(c)
	if order.CustomerID != actor && order.ProducerID != actor {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	state, err := h.facade.Progress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.ProgressResponse{OrderID: state.OrderID, Milestones: state.Milestones}
	if !state.UpdatedAt.IsZero() {
		updatedAt := state.UpdatedAt
		response.UpdatedAt = &updatedAt
	}
	c.JSON(http.StatusOK, response)
}
