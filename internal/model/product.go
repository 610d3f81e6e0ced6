package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product document.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int32              `json:"stock" bson:"stock"`
	Images      []string           `json:"images" bson:"images,omitempty"`
	Rating      float64            `json:"rating" bson:"rating"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updatedAt"`
}

// ProductList contains a page of products and the total match count.
type ProductList struct {
	TotalCount int64      `json:"totalCount"`
	Items      []*Product `json:"items"`
}

// ProductFilter carries the optional product search criteria. Zero
// fields impose no constraint; Category "all" is equivalent to absent.
type ProductFilter struct {
	Category string   `json:"category,omitempty"`
	Search   string   `json:"search,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	InStock  *bool    `json:"in_stock,omitempty"`
}

// ListOptions controls pagination and ordering of product listings.
type ListOptions struct {
	Page  int64  `json:"page"`
	Limit int64  `json:"limit"`
	Sort  string `json:"sort"` // newest | price_asc | price_desc | rating
}

// Normalize clamps pagination to sane bounds.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
}
