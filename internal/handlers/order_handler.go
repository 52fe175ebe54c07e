package handlers

import (
	"context"
	"net/http"
	"time"

	"trendz_shop/internal/models"
	"trendz_shop/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PlaceOrderItemRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type PlaceOrderRequest struct {
	UserID     uint                    `json:"user_id" binding:"required"`
	Items      []PlaceOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalPrice *decimal.Decimal        `json:"total_price"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DefaultOrderTimeout bounds an order placement when no positive timeout is
// configured.
const DefaultOrderTimeout = 10 * time.Second

type OrderHandler struct {
	orderService services.OrderService
	timeout      time.Duration
}

func NewOrderHandler(orderService services.OrderService, timeout time.Duration) *OrderHandler {
	if timeout <= 0 {
		timeout = DefaultOrderTimeout
	}
	return &OrderHandler{orderService: orderService, timeout: timeout}
}

// PlaceOrder handles POST /api/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]services.PlaceOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.PlaceOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.orderService.PlaceOrder(ctx, services.PlaceOrderRequest{
		UserID:     req.UserID,
		Items:      items,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order created successfully",
		"order_id": result.OrderID,
	})
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListUserOrders handles GET /api/users/:id/orders
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, limit, ok := parsePage(c)
	if !ok {
		return
	}

	list, err := h.orderService.ListUserOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListOrders handles GET /api/admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit, ok := parsePage(c)
	if !ok {
		return
	}

	list, err := h.orderService.ListOrders(c.Request.Context(), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdatePaymentStatus handles PATCH /api/admin/orders/:id
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, models.PaymentStatus(req.Status)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "order_id": id, "status": req.Status})
}

// DeleteOrder handles DELETE /api/admin/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
