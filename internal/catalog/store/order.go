package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
)

type orders struct {
	client *mongodb.Client
}

func newOrders(client *mongodb.Client) *orders {
	return &orders{client}
}

func (o *orders) coll() (*mongo.Collection, error) {
	return o.client.Collection(CollOrders)
}

// Create inserts a new order with a pending status unless one is set.
func (o *orders) Create(ctx context.Context, order *model.Order) error {
	coll, err := o.coll()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}

	result, err := coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// Get retrieves an order by id, nil without error when missing.
func (o *orders) Get(ctx context.Context, id string) (*model.Order, error) {
	coll, err := o.coll()
	if err != nil {
		return nil, err
	}

	var order model.Order
	if err := coll.FindOne(ctx, idFilter(id)).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListRecent returns the newest orders first, capped at limit.
func (o *orders) ListRecent(ctx context.Context, limit int64) ([]*model.Order, error) {
	coll, err := o.coll()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	cursor, err := coll.Find(ctx, bson.D{}, mongoopts.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}

	items := []*model.Order{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus transitions an order to the given status.
func (o *orders) UpdateStatus(ctx context.Context, id, status string) error {
	coll, err := o.coll()
	if err != nil {
		return err
	}

	result, err := coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
