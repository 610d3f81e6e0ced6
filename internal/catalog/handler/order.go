package handler

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/cache"
)

// OrderItemRequest is one line of an order request.
type OrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Quantity  int32   `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gte=0"`
}

// CreateOrderRequest is the request body for placing an order.
type CreateOrderRequest struct {
	UserID string             `json:"user_id" binding:"required"`
	Items  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder places an order and invalidates the dashboard snapshot,
// whose order histogram it changes.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		writeBadRequest(c, "user_id must be a valid object id")
		return
	}

	order := &model.Order{UserID: userID}
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			writeBadRequest(c, "product_id must be a valid object id")
			return
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductID: productID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		order.TotalPrice += item.Price * float64(item.Quantity)
	}

	if err := h.store.Orders().Create(c.Request.Context(), order); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Del(c.Request.Context(), cache.KeyDashboard)
	writeData(c, order)
}

// GetOrder returns an order by id. Orders change status too often to
// cache.
func (h *Handler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeBadRequest(c, "order id is required")
		return
	}

	order, err := h.store.Orders().Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if order == nil {
		writeNotFound(c, "order not found")
		return
	}
	writeData(c, order)
}

// UpdateOrderStatusRequest is the request body for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending shipped delivered cancelled"`
}

// UpdateOrderStatus transitions an order and invalidates the dashboard
// snapshot, whose histogram and revenue totals it changes.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeBadRequest(c, "order id is required")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	if err := h.store.Orders().UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Del(c.Request.Context(), cache.KeyDashboard)
	writeData(c, gin.H{"id": id, "status": req.Status})
}
