package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/usecase"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), usecase.CreateOrderParams{
		CustomerID:  CurrentActorID(c),
		ProducerID:  req.ProducerID,
		Price:       req.Price,
		Description: req.Description,
		PaymentRef:  req.PaymentRef,
		Attributes:  req.Attributes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Transition handles POST /api/orders/:id/transition. EXPIRE is reserved for
// the sweeper and rejected here.
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	action := model.TransitionAction(req.Action)
	switch action {
	case model.ActionAccept, model.ActionReject, model.ActionComplete:
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: "unknown action"})
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

	var updated *model.Order
	if req.Version != nil {
		updated, err = h.facade.Transition(c.Request.Context(), id, *req.Version, action)
	} else {
		updated, err = h.facade.TransitionLatest(c.Request.Context(), id, action)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*updated))
}

// CustomerList handles GET /api/customer/orders.
func (h *OrderHandler) CustomerList(c *gin.Context) {
	limit, cursor := pageParams(c)
	orders, err := h.facade.CustomerOrders(c.Request.Context(), CurrentActorID(c), limit+1, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderListResponse(orders, limit))
}

// ProducerList handles GET /api/producer/orders.
func (h *OrderHandler) ProducerList(c *gin.Context) {
	limit, cursor := pageParams(c)
	orders, err := h.facade.ProducerOrders(c.Request.Context(), CurrentActorID(c), limit+1, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderListResponse(orders, limit))
}

// PendingList handles GET /api/producer/orders/pending: PENDING orders whose
// acceptance window has not lapsed yet.
func (h *OrderHandler) PendingList(c *gin.Context) {
	limit, cursor := pageParams(c)
	orders, err := h.facade.PendingAcceptance(c.Request.Context(), CurrentActorID(c), limit+1, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderListResponse(orders, limit))
}

// Summary handles GET /api/producer/summary.
func (h *OrderHandler) Summary(c *gin.Context) {
	summary, err := h.facade.ProducerSummary(c.Request.Context(), CurrentActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProducerSummaryResponse{
		TotalOrders:     summary.TotalOrders,
		PendingOrders:   summary.PendingOrders,
		CompletedOrders: summary.CompletedOrders,
		TotalRevenue:    summary.TotalRevenue,
	})
}
