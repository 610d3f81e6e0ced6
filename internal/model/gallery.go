package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryImage represents an image in the marketing gallery.
type GalleryImage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	ImageURL  string             `json:"image_url" bson:"imageUrl"`
	Category  string             `json:"category" bson:"category,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}
