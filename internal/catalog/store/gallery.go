package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
)

type gallery struct {
	client *mongodb.Client
}

func newGallery(client *mongodb.Client) *gallery {
	return &gallery{client}
}

func (g *gallery) coll() (*mongo.Collection, error) {
	return g.client.Collection(CollGallery)
}

// List returns all gallery images, newest first.
func (g *gallery) List(ctx context.Context) ([]*model.GalleryImage, error) {
	coll, err := g.coll()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{}, mongoopts.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	items := []*model.GalleryImage{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts a gallery image.
func (g *gallery) Add(ctx context.Context, image *model.GalleryImage) error {
	coll, err := g.coll()
	if err != nil {
		return err
	}

	image.CreatedAt = time.Now().UTC()

	result, err := coll.InsertOne(ctx, image)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		image.ID = oid
	}
	return nil
}
