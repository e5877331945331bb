package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/worker"
)

// SweepHandler exposes the deadline sweep to an external scheduler. The pass
// is idempotent; overlapping invocations just find fewer matching orders.
type SweepHandler struct {
	runner worker.SweepRunner
}

// NewSweepHandler constructs SweepHandler.
func NewSweepHandler(runner worker.SweepRunner) *SweepHandler {
	return &SweepHandler{runner: runner}
}

// Run handles POST /api/sweep.
func (h *SweepHandler) Run(c *gin.Context) {
	expired, err := h.runner.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SweepResponse{OrdersExpired: expired})
}
