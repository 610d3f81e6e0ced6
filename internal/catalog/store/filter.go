package store

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shopstack-io/shopstack/internal/model"
)

// BuildProductFilter translates a ProductFilter into a MongoDB
// predicate. Pure function, no I/O. Absent fields impose no constraint,
// so an empty filter yields the match-everything predicate.
func BuildProductFilter(f *model.ProductFilter) bson.M {
	query := bson.M{}
	if f == nil {
		return query
	}

	// "all" is the UI sentinel for no category constraint.
	if f.Category != "" && f.Category != "all" {
		query["category"] = f.Category
	}

	// MongoDB allows one $text clause per query, over the collection's
	// single text index.
	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if f.InStock != nil {
		if *f.InStock {
			query["stock"] = bson.M{"$gt": 0}
		} else {
			query["stock"] = bson.M{"$lte": 0}
		}
	}

	return query
}

// sortSpec maps a listing sort name to a MongoDB sort document.
// Unknown values fall back to newest-first.
func sortSpec(sort string) bson.D {
	switch sort {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
