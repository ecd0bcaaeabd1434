package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxAddAttempts bounds the increment-or-push loop in AddItem
const maxAddAttempts = 5

type mongoCartRepository struct {
	collection *mongo.Collection
}

// NewMongoCartRepository returns a cart store backed by the carts
// collection of db. Line item changes use atomic update operators, never
// read-modify-write.
func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection(CartsCollection)}
}

func (r *mongoCartRepository) Create(ctx context.Context) (*domain.Cart, error) {
	doc := cartDocument{Products: []domain.LineItem{}}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, storageError("insert cart", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("mongo insert cart: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *mongoCartRepository) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	oid, err := objectID("cart", id)
	if err != nil {
		return nil, err
	}

	var doc cartDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("cart", id)
	}
	if err != nil {
		return nil, storageError("find cart", err)
	}

	return doc.toDomain(), nil
}

// AddItem first tries to increment an existing line item, then to push a
// new one guarded by $ne so two concurrent adds can never both push. When
// neither update matches, the cart is gone, the line item is already at
// MaxQuantity, or another writer pushed the item in between, in which case
// the increment is retried.
func (r *mongoCartRepository) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	oid, err := objectID("cart", cartID)
	if err != nil {
		return nil, err
	}

	if quantity > domain.MaxQuantity {
		return nil, domain.QuantityLimitError(productID)
	}

	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		res, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": oid, "products": bson.M{"$elemMatch": bson.M{
				"product":  productID,
				"quantity": bson.M{"$lte": domain.MaxQuantity - quantity},
			}}},
			bson.M{"$inc": bson.M{"products.$.quantity": quantity}},
		)
		if err != nil {
			return nil, storageError("increment line item", err)
		}
		if res.MatchedCount > 0 {
			return r.GetByID(ctx, cartID)
		}

		res, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": oid, "products.product": bson.M{"$ne": productID}},
			bson.M{"$push": bson.M{"products": domain.LineItem{Product: productID, Quantity: quantity}}},
		)
		if err != nil {
			return nil, storageError("push line item", err)
		}
		if res.MatchedCount > 0 {
			return r.GetByID(ctx, cartID)
		}

		if err := r.exists(ctx, oid, cartID); err != nil {
			return nil, err
		}

		full, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid, "products": bson.M{"$elemMatch": bson.M{
			"product":  productID,
			"quantity": bson.M{"$gt": domain.MaxQuantity - quantity},
		}}}, options.Count().SetLimit(1))
		if err != nil {
			return nil, storageError("count line items", err)
		}
		if full > 0 {
			return nil, domain.QuantityLimitError(productID)
		}
	}

	return nil, fmt.Errorf("mongo add line item: cart %s kept changing, gave up after %d attempts", cartID, maxAddAttempts)
}

func (r *mongoCartRepository) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	oid, err := objectID("cart", cartID)
	if err != nil {
		return nil, err
	}

	cart, err := r.findAndUpdate(ctx, cartID,
		bson.M{"_id": oid, "products.product": productID},
		bson.M{"$set": bson.M{"products.$.quantity": quantity}},
	)
	if !errors.Is(err, domain.ErrNotFound) {
		return cart, err
	}

	// tell a missing cart apart from a missing line item
	if err := r.exists(ctx, oid, cartID); err != nil {
		return nil, err
	}
	return nil, domain.NewNotFoundError("line item", productID)
}

func (r *mongoCartRepository) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	oid, err := objectID("cart", cartID)
	if err != nil {
		return nil, err
	}

	return r.findAndUpdate(ctx, cartID,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"products": bson.M{"product": productID}}},
	)
}

func (r *mongoCartRepository) ReplaceItems(ctx context.Context, cartID string, items []domain.LineItem) (*domain.Cart, error) {
	oid, err := objectID("cart", cartID)
	if err != nil {
		return nil, err
	}

	merged, err := domain.MergeLineItems(items)
	if err != nil {
		return nil, err
	}

	return r.findAndUpdate(ctx, cartID,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"products": merged}},
	)
}

func (r *mongoCartRepository) Empty(ctx context.Context, cartID string) (*domain.Cart, error) {
	oid, err := objectID("cart", cartID)
	if err != nil {
		return nil, err
	}

	return r.findAndUpdate(ctx, cartID,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"products": []domain.LineItem{}}},
	)
}

func (r *mongoCartRepository) findAndUpdate(ctx context.Context, cartID string, filter, update bson.M) (*domain.Cart, error) {
	var doc cartDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("cart", cartID)
	}
	if err != nil {
		return nil, storageError("update cart", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoCartRepository) exists(ctx context.Context, oid primitive.ObjectID, cartID string) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return storageError("count carts", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("cart", cartID)
	}
	return nil
}
