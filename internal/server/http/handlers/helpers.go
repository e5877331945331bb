package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/server/http/middleware"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// CurrentActorID extracts authenticated actor identifier from context.
func CurrentActorID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.ActorIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: "invalid order id"})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (limit int, cursor int64) {
	limit = defaultPageLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v := c.Query("cursor"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cursor = n
		}
	}
	return limit, cursor
}

// respondError maps domain errors to distinguishable HTTP responses. The
// codes stay machine-readable so a client can explain the failure instead of
// showing a generic one.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: "not_found", Message: "order not found"})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Code: "invalid_transition", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidState):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Code: "invalid_state", Message: "order is not in accepted state"})
	case errors.Is(err, domainErrors.ErrDeadlineExpired):
		c.JSON(http.StatusGone, dto.ErrorResponse{Code: "deadline_expired", Message: "the acceptance deadline has passed"})
	case errors.Is(err, domainErrors.ErrConcurrentModification):
		c.JSON(http.StatusPreconditionFailed, dto.ErrorResponse{Code: "concurrent_modification", Message: "order changed concurrently, reload and retry"})
	case errors.Is(err, domainErrors.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Code: "store_unavailable", Message: "storage is unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "internal", Message: "internal error"})
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                 order.ID,
		Number:             order.Number,
		CustomerID:         order.CustomerID,
		ProducerID:         order.ProducerID,
		Price:              order.Price,
		Description:        order.Description,
		PaymentRef:         order.PaymentRef,
		Attributes:         order.Attributes,
		Status:             string(order.Status),
		IsAccepted:         order.IsAccepted,
		AcceptanceDeadline: order.AcceptanceDeadline,
		AcceptedAt:         order.AcceptedAt,
		Version:            order.Version,
		CreatedAt:          order.CreatedAt,
	}
}

func toOrderListResponse(orders []model.Order, limit int) dto.OrderListResponse {
	var nextCursor *int64
	if len(orders) > limit {
		orders = orders[:limit]
		last := orders[len(orders)-1].ID
		nextCursor = &last
	}
	response := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(orders)), NextCursor: nextCursor}
	for _, o := range orders {
		response.Orders = append(response.Orders, toOrderResponse(o))
	}
	return response
}
