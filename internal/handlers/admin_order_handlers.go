package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/su413/storefront-golang/internal/orders"
)

//
// --- Admin Order Handlers ---
//

// AdminListOrders is the handler for GET /v1/admin/orders.
func (h *Handlers) AdminListOrders(c *gin.Context) {
	filters := orders.OrderFilters{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
	}

	ordersList, total, err := h.Ledger.ListOrders(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": ordersList, "total": total})
}

// AdminGetOrder is the handler for GET /v1/admin/orders/:id.
func (h *Handlers) AdminGetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Ledger.GetOrder(id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ApproveOrder is the handler for POST /v1/admin/orders/:id/approve.
func (h *Handlers) ApproveOrder(c *gin.Context) {
	h.transitionOrder(c, orders.ActionApprove)
}

// RejectOrder is the handler for POST /v1/admin/orders/:id/reject. A
// rejection reason (admin_notes) is mandatory.
func (h *Handlers) RejectOrder(c *gin.Context) {
	h.transitionOrder(c, orders.ActionReject)
}

// ProcessOrder is the handler for POST /v1/admin/orders/:id/process.
func (h *Handlers) ProcessOrder(c *gin.Context) {
	h.transitionOrder(c, orders.ActionProcess)
}

// ShipOrder is the handler for POST /v1/admin/orders/:id/ship.
func (h *Handlers) ShipOrder(c *gin.Context) {
	h.transitionOrder(c, orders.ActionShip)
}

// DeliverOrder is the handler for POST /v1/admin/orders/:id/deliver.
func (h *Handlers) DeliverOrder(c *gin.Context) {
	h.transitionOrder(c, orders.ActionDeliver)
}

// CancelOrder is the handler for POST /v1/admin/orders/:id/cancel.
func (h *Handlers) CancelOrder(c *gin.Context) {
	h.transitionOrder(c, orders.ActionCancel)
}

func (h *Handlers) transitionOrder(c *gin.Context, action orders.Action) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	opts := orders.TransitionOptions{
		AdminNotes:     c.PostForm("admin_notes"),
		TrackingNumber: c.PostForm("tracking_number"),
	}

	order, err := h.Ledger.Transition(c, id, action, opts)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrRejectReasonRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		case errors.Is(err, orders.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderNotes is the handler for POST /v1/admin/orders/:id/notes.
func (h *Handlers) UpdateOrderNotes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := h.Ledger.UpdateAdminNotes(id, c.PostForm("admin_notes")); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes updated"})
}
