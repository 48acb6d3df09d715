package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/su413/storefront-golang/internal/orders"
)

//
// --- Checkout & Customer Order Handlers ---
//

// PlaceOrder is the handler for POST /v1/api/place-order. Guest
// checkout is allowed; a valid bearer token attributes the order to
// the user.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var input orders.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if userID_raw, exists := c.Get("userID"); exists {
		userID := userID_raw.(int64)
		input.UserID = &userID
	}

	order, err := h.Ledger.PlaceOrder(c, input)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidOrderData),
			errors.Is(err, orders.ErrTotalsMismatch),
			errors.Is(err, orders.ErrProductNotFound),
			errors.Is(err, orders.ErrProductInactive),
			errors.Is(err, orders.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to place order"})
		}
		return
	}

	// Fire-and-forget: notification problems never fail a committed
	// order.
	h.Dispatcher.Dispatch(order)

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Order placed successfully",
		"order_number": order.OrderNumber,
		"order_id":     order.ID,
	})
}

// GetMyOrders is the handler for GET /v1/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	ordersList, err := h.Ledger.ListUserOrders(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": ordersList})
}

// GetOrderDetails is the handler for GET /v1/orders/:id. Customers can
// only read their own orders.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Ledger.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if order.UserID == nil || *order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
