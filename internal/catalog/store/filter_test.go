package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shopstack-io/shopstack/internal/model"
)

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

func TestBuildProductFilterEmpty(t *testing.T) {
	// The always-true predicate: matches everything.
	assert.Equal(t, bson.M{}, BuildProductFilter(nil))
	assert.Equal(t, bson.M{}, BuildProductFilter(&model.ProductFilter{}))
}

func TestBuildProductFilterCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     bson.M
	}{
		{"absent imposes no constraint", "", bson.M{}},
		{"all sentinel imposes no constraint", "all", bson.M{}},
		{"concrete category filters", "kitchen", bson.M{"category": "kitchen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildProductFilter(&model.ProductFilter{Category: tt.category})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildProductFilterSearch(t *testing.T) {
	got := BuildProductFilter(&model.ProductFilter{Search: "espresso grinder"})

	assert.Equal(t, bson.M{"$text": bson.M{"$search": "espresso grinder"}}, got)
}

func TestBuildProductFilterPriceRange(t *testing.T) {
	tests := []struct {
		name   string
		filter *model.ProductFilter
		want   bson.M
	}{
		{
			"min only",
			&model.ProductFilter{MinPrice: float64Ptr(10)},
			bson.M{"price": bson.M{"$gte": 10.0}},
		},
		{
			"max only",
			&model.ProductFilter{MaxPrice: float64Ptr(50)},
			bson.M{"price": bson.M{"$lte": 50.0}},
		},
		{
			"inclusive both ends",
			&model.ProductFilter{MinPrice: float64Ptr(10), MaxPrice: float64Ptr(50)},
			bson.M{"price": bson.M{"$gte": 10.0, "$lte": 50.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildProductFilter(tt.filter))
		})
	}
}

func TestBuildProductFilterStock(t *testing.T) {
	inStock := BuildProductFilter(&model.ProductFilter{InStock: boolPtr(true)})
	assert.Equal(t, bson.M{"stock": bson.M{"$gt": 0}}, inStock)

	outOfStock := BuildProductFilter(&model.ProductFilter{InStock: boolPtr(false)})
	assert.Equal(t, bson.M{"stock": bson.M{"$lte": 0}}, outOfStock)

	// Omitted matches both.
	assert.NotContains(t, BuildProductFilter(&model.ProductFilter{}), "stock")
}

func TestBuildProductFilterCombinesWithAnd(t *testing.T) {
	got := BuildProductFilter(&model.ProductFilter{
		Category: "kitchen",
		Search:   "grinder",
		MinPrice: float64Ptr(20),
		MaxPrice: float64Ptr(200),
		InStock:  boolPtr(true),
	})

	// Top-level keys of a bson.M combine with logical AND.
	assert.Equal(t, bson.M{
		"category": "kitchen",
		"$text":    bson.M{"$search": "grinder"},
		"price":    bson.M{"$gte": 20.0, "$lte": 200.0},
		"stock":    bson.M{"$gt": 0},
	}, got)
}

func TestSortSpec(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, sortSpec("price_asc"))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, sortSpec("price_desc"))
	assert.Equal(t, bson.D{{Key: "rating", Value: -1}}, sortSpec("rating"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sortSpec(""))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sortSpec("bogus"))
}
