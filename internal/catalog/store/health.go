package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shopstack-io/shopstack/internal/model"
)

// HealthCheck pings the store and reports a structured status with
// basic size and object counts. It never returns an error: every
// failure is captured as an "unhealthy" result with the message
// attached.
func (ds *Datastore) HealthCheck(ctx context.Context) *model.HealthStatus {
	status := &model.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}

	db, err := ds.handle()
	if err != nil {
		return unhealthy(status, err)
	}

	if err := ds.client.Ping(ctx); err != nil {
		return unhealthy(status, err)
	}

	// dbStats reports counts as integers but sizes as doubles,
	// depending on server version; decode loosely and convert.
	var raw struct {
		DB          string  `bson:"db"`
		Collections int32   `bson:"collections"`
		Indexes     int32   `bson:"indexes"`
		DataSize    float64 `bson:"dataSize"`
		StorageSize float64 `bson:"storageSize"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}}).Decode(&raw); err != nil {
		return unhealthy(status, err)
	}

	status.Database = &model.DatabaseInfo{
		Name:        raw.DB,
		Collections: int64(raw.Collections),
		Indexes:     int64(raw.Indexes),
		DataSize:    int64(raw.DataSize),
		StorageSize: int64(raw.StorageSize),
	}
	return status
}

func unhealthy(status *model.HealthStatus, err error) *model.HealthStatus {
	status.Status = "unhealthy"
	status.Database = nil
	status.Error = err.Error()
	return status
}
