package repository

import (
	"context"
	"errors"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository returns a product store backed by the products
// collection of db. It ensures the unique index on code that enforces
// code uniqueness across concurrent writers.
func NewMongoProductRepository(ctx context.Context, db *mongo.Database) (ProductRepository, error) {
	collection := db.Collection(ProductsCollection)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("code_unique"),
	})
	if err != nil {
		return nil, storageError("create index", err)
	}

	return &mongoProductRepository{collection: collection}, nil
}

func (r *mongoProductRepository) List(ctx context.Context, params query.Params) (*query.Page, error) {
	params = params.Normalize()
	filter := mongoFilter(params.Filter())

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, storageError("count products", err)
	}

	opts := options.Find().
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit))
	if sort := mongoSort(params.SortOrder()); sort != nil {
		opts.SetSort(sort)
	}

	docs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return query.NewPage(docs, int(total), params), nil
}

func (r *mongoProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{}, options.Find())
}

func (r *mongoProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, storageError("find products", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageError("decode products", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID("product", id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, storageError("find product", err)
	}

	return doc.toDomain(), nil
}

func (r *mongoProductRepository) Add(ctx context.Context, product *domain.Product) error {
	if product.Thumbnails == nil {
		product.Thumbnails = []string{}
	}
	doc := productDocument{Product: *product.Clone()}

	res, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return duplicateCode(product.Code)
	}
	if err != nil {
		return storageError("insert product", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return nil
}

func (r *mongoProductRepository) Update(ctx context.Context, id string, in *domain.ProductInput) (*domain.Product, error) {
	set := mongoSet(in)
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	oid, err := objectID("product", id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.NewNotFoundError("product", id)
	case mongo.IsDuplicateKeyError(err):
		code, _ := set["code"].(string)
		return nil, duplicateCode(code)
	case err != nil:
		return nil, storageError("update product", err)
	}

	return doc.toDomain(), nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID("product", id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storageError("delete product", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFoundError("product", id)
	}
	return nil
}
