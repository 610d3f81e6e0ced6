package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
)

type users struct {
	client *mongodb.Client
}

func newUsers(client *mongodb.Client) *users {
	return &users{client}
}

func (u *users) coll() (*mongo.Collection, error) {
	return u.client.Collection(CollUsers)
}

// Create inserts a new user, defaulting the role.
func (u *users) Create(ctx context.Context, user *model.User) error {
	coll, err := u.coll()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	result, err := coll.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// Get retrieves a user by id, nil without error when missing.
func (u *users) Get(ctx context.Context, id string) (*model.User, error) {
	coll, err := u.coll()
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := coll.FindOne(ctx, idFilter(id)).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, nil without error when missing.
func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	coll, err := u.coll()
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Count returns the total number of users.
func (u *users) Count(ctx context.Context) (int64, error) {
	coll, err := u.coll()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.D{})
}
