package cache

import "time"

// Cache key conventions. Any component doing cache-aside reads against
// the same backend relies on these exact names, so they must not drift.
//
//	products             product list           5 min
//	product:{id}         single product        10 min
//	categories           category list         30 min
//	analytics:dashboard  dashboard analytics    5 min
//	user:{id}            user profile          30 min
//	gallery              gallery listing       30 min
const (
	KeyProducts   = "products"
	KeyCategories = "categories"
	KeyDashboard  = "analytics:dashboard"
	KeyGallery    = "gallery"

	productKeyPrefix = "product:"
	userKeyPrefix    = "user:"
)

// TTL classes: short for frequently-changing aggregates, longer for
// slowly-changing reference data. Staleness within these windows is the
// accepted price for load reduction.
const (
	TTLProducts   = 300 * time.Second
	TTLProduct    = 600 * time.Second
	TTLCategories = 1800 * time.Second
	TTLDashboard  = 300 * time.Second
	TTLUser       = 1800 * time.Second
	TTLGallery    = 1800 * time.Second
)

// ProductKey returns the cache key for a single product.
func ProductKey(id string) string {
	return productKeyPrefix + id
}

// UserKey returns the cache key for a user profile.
func UserKey(id string) string {
	return userKeyPrefix + id
}

// ProductPattern matches every single-product key, for bulk
// invalidation after product writes.
func ProductPattern() string {
	return productKeyPrefix + "*"
}

// UserPattern matches every user profile key.
func UserPattern() string {
	return userKeyPrefix + "*"
}
