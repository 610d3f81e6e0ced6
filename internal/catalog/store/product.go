package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
)

type products struct {
	client *mongodb.Client
}

func newProducts(client *mongodb.Client) *products {
	return &products{client}
}

func (p *products) coll() (*mongo.Collection, error) {
	return p.client.Collection(CollProducts)
}

// idFilter matches by native ObjectID when the id parses as one, and
// falls back to the raw string value otherwise, so both identifier
// formats are supported transparently.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// List returns one page of products matching the filter, together with
// the total match count for pagination.
func (p *products) List(ctx context.Context, filter *model.ProductFilter, opts *model.ListOptions) (*model.ProductList, error) {
	coll, err := p.coll()
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &model.ListOptions{}
	}
	opts.Normalize()

	query := BuildProductFilter(filter)

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	findOpts := mongoopts.Find().
		SetSort(sortSpec(opts.Sort)).
		SetSkip((opts.Page - 1) * opts.Limit).
		SetLimit(opts.Limit)

	cursor, err := coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, err
	}

	items := []*model.Product{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	return &model.ProductList{TotalCount: total, Items: items}, nil
}

// Count returns the number of products matching the filter.
func (p *products) Count(ctx context.Context, filter *model.ProductFilter) (int64, error) {
	coll, err := p.coll()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, BuildProductFilter(filter))
}

// Get retrieves a product by id, returning nil without error when no
// product matches.
func (p *products) Get(ctx context.Context, id string) (*model.Product, error) {
	coll, err := p.coll()
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := coll.FindOne(ctx, idFilter(id)).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product, stamping timestamps and filling in the
// generated id.
func (p *products) Create(ctx context.Context, product *model.Product) error {
	coll, err := p.coll()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := coll.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// Update replaces an existing product document by id.
func (p *products) Update(ctx context.Context, product *model.Product) error {
	coll, err := p.coll()
	if err != nil {
		return err
	}

	product.UpdatedAt = time.Now().UTC()

	result, err := coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a product by id. Deleting a missing product reports
// mongo.ErrNoDocuments so callers can map it to a not-found response.
func (p *products) Delete(ctx context.Context, id string) error {
	coll, err := p.coll()
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Categories returns the distinct product categories, sorted.
func (p *products) Categories(ctx context.Context) ([]string, error) {
	coll, err := p.coll()
	if err != nil {
		return nil, err
	}

	values, err := coll.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
