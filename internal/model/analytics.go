package model

import "time"

// AnalyticsSnapshot is the dashboard view assembled from six
// independent aggregations. Every branch defaults to its zero shape, so
// an empty store (or a failed branch) yields zero counts and empty
// lists rather than nils.
type AnalyticsSnapshot struct {
	Products     ProductStats     `json:"products"`
	Orders       map[string]int64 `json:"orders"` // status -> count, raw status strings
	Users        UserStats        `json:"users"`
	Revenue      RevenueStats     `json:"revenue"`
	LowStock     []*Product       `json:"low_stock"`     // up to 10, ascending by stock
	RecentOrders []*Order         `json:"recent_orders"` // up to 5, newest first
	GeneratedAt  time.Time        `json:"generated_at"`
}

// ProductStats aggregates the product collection.
type ProductStats struct {
	Count         int64   `json:"count" bson:"count"`
	TotalStock    int64   `json:"total_stock" bson:"totalStock"`
	AveragePrice  float64 `json:"average_price" bson:"averagePrice"`
	LowStockCount int64   `json:"low_stock_count" bson:"lowStockCount"`
}

// UserStats aggregates the user collection.
type UserStats struct {
	Count      int64 `json:"count" bson:"count"`
	AdminCount int64 `json:"admin_count" bson:"adminCount"`
}

// RevenueStats sums delivered orders.
type RevenueStats struct {
	Total float64 `json:"total" bson:"total"`
	Count int64   `json:"count" bson:"count"`
}

// HealthStatus is the structured health report. It is always returned,
// never raised: failures are captured in Error with Status "unhealthy".
type HealthStatus struct {
	Status    string        `json:"status"` // healthy | unhealthy
	Database  *DatabaseInfo `json:"database,omitempty"`
	Cache     bool          `json:"cache"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// DatabaseInfo carries basic size and object counts from the store.
type DatabaseInfo struct {
	Name        string `json:"name" bson:"db"`
	Collections int64  `json:"collections" bson:"collections"`
	Indexes     int64  `json:"indexes" bson:"indexes"`
	DataSize    int64  `json:"dataSize" bson:"dataSize"`
	StorageSize int64  `json:"storageSize" bson:"storageSize"`
}
