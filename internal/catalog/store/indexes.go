package store

import (
	"context"
	"errors"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-io/shopstack/pkg/component/storage"
)

// indexSpec pairs a collection with the indexes it requires.
type indexSpec struct {
	collection string
	models     []mongo.IndexModel
}

// indexSpecs declares the minimal index set for the query patterns in
// this package: single-field indexes for equality and sort filters,
// one compound index for the category+price combination the listing
// uses, and the text index backing free-text search. Re-applying the
// set on every startup is a no-op for indexes that already exist with
// identical options.
func indexSpecs() []indexSpec {
	return []indexSpec{
		{
			collection: CollProducts,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "category", Value: 1}}},
				{Keys: bson.D{{Key: "price", Value: 1}}},
				{Keys: bson.D{{Key: "stock", Value: 1}}},
				{Keys: bson.D{{Key: "createdAt", Value: -1}}},
				{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
				{
					Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
					Options: mongoopts.Index().SetName("product_text"),
				},
			},
		},
		{
			collection: CollOrders,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "status", Value: 1}}},
				{Keys: bson.D{{Key: "createdAt", Value: -1}}},
				{Keys: bson.D{{Key: "userId", Value: 1}}},
			},
		},
		{
			collection: CollUsers,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: mongoopts.Index().SetUnique(true),
				},
				{Keys: bson.D{{Key: "role", Value: 1}}},
			},
		},
		{
			collection: CollGallery,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			},
		},
	}
}

// EnsureIndexes applies the declared index set. Best-effort: a failure
// on one collection is reported and the rest are still attempted.
// Conflicting options on an existing index surface in the returned
// error; they never abort startup.
func (ds *Datastore) EnsureIndexes(ctx context.Context) error {
	db, err := ds.handle()
	if err != nil {
		return err
	}

	var errs []error
	for _, spec := range indexSpecs() {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			logger.Warnw("failed to ensure indexes",
				"collection", spec.collection,
				"error", err.Error(),
			)
			errs = append(errs, storage.ErrIndexCreation.WithCause(err))
			continue
		}
		logger.Debugw("indexes ensured", "collection", spec.collection, "count", len(spec.models))
	}
	return errors.Join(errs...)
}
