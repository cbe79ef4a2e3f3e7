package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/pkg/ctxmeta"
	"github.com/Gunvolt24/shop_checkout/pkg/httpx"
	"github.com/Gunvolt24/shop_checkout/pkg/validate"
	"github.com/gin-gonic/gin"
)

// statusByOutcome — HTTP-статус для каждого итога оформления.
var statusByOutcome = map[domain.Outcome]int{
	domain.OutcomeCreated:            http.StatusCreated,
	domain.OutcomeMalformedOrder:     http.StatusBadRequest,
	domain.OutcomeCustomerNotFound:   http.StatusNotFound,
	domain.OutcomeAccessDenied:       http.StatusForbidden,
	domain.OutcomeProductNotFound:    http.StatusUnprocessableEntity,
	domain.OutcomeInsufficientStock:  http.StatusConflict,
	domain.OutcomePersistenceFailure: http.StatusInternalServerError,
}

func statusOf(o domain.Outcome) int {
	if st, ok := statusByOutcome[o]; ok {
		return st
	}
	return http.StatusInternalServerError
}

// createOrder — POST /orders: оформление заказа от имени вызывающего из заголовков шлюза.
func (h *Handler) createOrder(c *gin.Context) {
	caller, err := httpx.CallerFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthenticated"})
		return
	}
	c.Request = c.Request.WithContext(ctxmeta.WithCallerID(c.Request.Context(), caller.Identity))

	ctx, cancel := h.requestContext(c)
	defer cancel()

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	req, err := validate.DecodeOrderRequest(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  domain.OutcomeMalformedOrder.String(),
		})
		return
	}

	res := h.service.CreateOrder(ctx, req, caller)
	switch res.Outcome {
	case domain.OutcomeCreated:
		c.Header("Location", "/orders/"+res.OrderID)
		c.JSON(http.StatusCreated, gin.H{"order_id": res.OrderID, "code": res.Outcome.String()})
	case domain.OutcomePersistenceFailure:
		// причину отказа хранилища наружу не отдаём
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": res.Outcome.String()})
	default:
		c.JSON(statusOf(res.Outcome), gin.H{"error": res.Reason, "code": res.Outcome.String()})
	}
}

func (h *Handler) getOrderByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}
	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		h.log.Errorf(ctx, "GetOrder failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listOrdersByCustomer(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty customer id"})
		return
	}

	page, err := httpx.ParsePage(c, defaultListLimit, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orders, err := h.service.OrdersByCustomer(ctx, id, page.Limit, page.Offset)
	if err != nil {
		h.log.Errorf(ctx, "OrdersByCustomer failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if orders == nil {
		orders = []*domain.PersistedOrder{}
	}
	c.JSON(http.StatusOK, orders)
}
