package repository

import (
	"context"
	"fmt"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the MongoDB stores
const (
	ProductsCollection = "products"
	CartsCollection    = "carts"
)

// ConnectMongo opens a client for uri and verifies the connection
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return client, nil
}

// productDocument is the stored shape of a product; the id lives in _id
type productDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	domain.Product `bson:",inline"`
}

func (d *productDocument) toDomain() *domain.Product {
	p := d.Product.Clone()
	p.ID = d.ID.Hex()
	return p
}

type cartDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Products []domain.LineItem  `bson:"products"`
}

func (d *cartDocument) toDomain() *domain.Cart {
	c := &domain.Cart{ID: d.ID.Hex(), Products: d.Products}
	if c.Products == nil {
		c.Products = []domain.LineItem{}
	}
	return c
}

// objectID parses a hex id. Malformed ids can never match a document, so
// they are reported as not found.
func objectID(entity, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewNotFoundError(entity, id)
	}
	return oid, nil
}

// mongoFilter translates a listing filter to a query document
func mongoFilter(f query.Filter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	return filter
}

// mongoSort translates a sort order; _id breaks ties so pages are stable.
// SortNone yields nil, leaving natural (insertion) order.
func mongoSort(order query.SortOrder) bson.D {
	switch order {
	case query.SortAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case query.SortDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return nil
	}
}

// mongoSet builds the $set document for a partial product update
func mongoSet(in *domain.ProductInput) bson.M {
	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Code != nil {
		set["code"] = *in.Code
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Stock != nil {
		set["stock"] = *in.Stock
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.HasThumbnails {
		set["thumbnails"] = append([]string{}, in.Thumbnails...)
	}
	return set
}

func storageError(op string, err error) error {
	return fmt.Errorf("mongo %s: %w", op, err)
}
