package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-io/shopstack/internal/model"
)

// lowStockThreshold marks a product as running out.
const lowStockThreshold = 10

// branchTimeout bounds each aggregation branch. Branches are not
// individually cancellable beyond this.
const branchTimeout = 15 * time.Second

// branch is one independent aggregation of the dashboard fan-out.
type branch struct {
	name string
	run  func(ctx context.Context) error
}

// DashboardAnalytics assembles the dashboard snapshot from six
// aggregations issued concurrently on the worker pool and joined before
// assembly.
//
// Branch isolation policy: a failed branch logs a warning and keeps its
// zero-value shape in the snapshot; the call as a whole fails only when
// every branch fails, which in practice means the store is down.
func (ds *Datastore) DashboardAnalytics(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	db, err := ds.handle()
	if err != nil {
		return nil, err
	}
	return ds.assembleSnapshot(ctx, db)
}

func (ds *Datastore) assembleSnapshot(ctx context.Context, db *mongo.Database) (*model.AnalyticsSnapshot, error) {
	snap := &model.AnalyticsSnapshot{
		Orders:       map[string]int64{},
		LowStock:     []*model.Product{},
		RecentOrders: []*model.Order{},
	}

	branches := []branch{
		{"product_stats", func(ctx context.Context) error {
			return ds.productStats(ctx, db, &snap.Products)
		}},
		{"order_histogram", func(ctx context.Context) error {
			return ds.orderHistogram(ctx, db, snap.Orders)
		}},
		{"user_stats", func(ctx context.Context) error {
			return ds.userStats(ctx, db, &snap.Users)
		}},
		{"revenue", func(ctx context.Context) error {
			return ds.revenueStats(ctx, db, &snap.Revenue)
		}},
		{"low_stock", func(ctx context.Context) error {
			return ds.lowStockProducts(ctx, db, &snap.LowStock)
		}},
		{"recent_orders", func(ctx context.Context) error {
			return ds.recentOrders(ctx, db, &snap.RecentOrders)
		}},
	}

	errs := ds.runBranches(ctx, branches)

	failed := 0
	for i, branchErr := range errs {
		if branchErr != nil {
			failed++
			logger.Warnw("analytics branch failed",
				"branch", branches[i].name,
				"error", branchErr.Error(),
			)
		}
	}
	if failed == len(branches) {
		return nil, fmt.Errorf("all analytics branches failed: %w", errors.Join(errs...))
	}

	snap.GeneratedAt = time.Now().UTC()
	return snap, nil
}

// runBranches fans the branches out on the worker pool and waits for
// all of them. Each branch runs under its own bounded timeout and
// writes only its own slot, so no further synchronization is needed.
func (ds *Datastore) runBranches(ctx context.Context, branches []branch) []error {
	errs := make([]error, len(branches))

	var wg sync.WaitGroup
	for i, b := range branches {
		i, b := i, b
		wg.Add(1)
		err := ds.workers.Submit(func() {
			defer wg.Done()

			branchCtx, cancel := context.WithTimeout(ctx, branchTimeout)
			defer cancel()
			errs[i] = b.run(branchCtx)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	return errs
}

func (ds *Datastore) productStats(ctx context.Context, db *mongo.Database, out *model.ProductStats) error {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalStock", Value: bson.D{{Key: "$sum", Value: "$stock"}}},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "lowStockCount", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$lt", Value: bson.A{"$stock", lowStockThreshold}}}, 1, 0,
				}},
			}}}},
		}}},
	}

	cursor, err := db.Collection(CollProducts).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var rows []model.ProductStats
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}
	// An empty collection yields no group row; the zero shape stands.
	if len(rows) > 0 {
		*out = rows[0]
	}
	return nil
}

func (ds *Datastore) orderHistogram(ctx context.Context, db *mongo.Database, out map[string]int64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := db.Collection(CollOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}

	// Keys are the raw status strings as stored.
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return nil
}

func (ds *Datastore) userStats(ctx context.Context, db *mongo.Database, out *model.UserStats) error {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "adminCount", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$role", model.RoleAdmin}}}, 1, 0,
				}},
			}}}},
		}}},
	}

	cursor, err := db.Collection(CollUsers).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var rows []model.UserStats
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}
	if len(rows) > 0 {
		*out = rows[0]
	}
	return nil
}

func (ds *Datastore) revenueStats(ctx context.Context, db *mongo.Database, out *model.RevenueStats) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$in", Value: model.DeliveredStatusSet}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := db.Collection(CollOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var rows []model.RevenueStats
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}
	if len(rows) > 0 {
		*out = rows[0]
	}
	return nil
}

func (ds *Datastore) lowStockProducts(ctx context.Context, db *mongo.Database, out *[]*model.Product) error {
	cursor, err := db.Collection(CollProducts).Find(ctx,
		bson.M{"stock": bson.M{"$lt": lowStockThreshold}},
		mongoopts.Find().
			SetSort(bson.D{{Key: "stock", Value: 1}}).
			SetLimit(10))
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (ds *Datastore) recentOrders(ctx context.Context, db *mongo.Database, out *[]*model.Order) error {
	cursor, err := db.Collection(CollOrders).Find(ctx,
		bson.D{},
		mongoopts.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(5))
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
