package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses as stored. Historical data carries case variants of
// "delivered", so revenue aggregation matches all of them.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// DeliveredStatusSet is the fixed status set counted as revenue.
var DeliveredStatusSet = []string{"delivered", "Delivered", "DELIVERED"}

// Order represents an order document.
type Order struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"userId"`
	Items      []OrderItem        `json:"items" bson:"items"`
	TotalPrice float64            `json:"total_price" bson:"totalPrice"`
	Status     string             `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updatedAt"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Quantity  int32              `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}
