package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shoplane-io/shoplane-api/internal/model"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (*model.Product, error)
}

// UpdateProductParams defines the optional parameters for updating a product.
// Only the fields that are not nil will be updated.
type UpdateProductParams struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *string
	Category    *string
	SubCategory *string
}

const productCollection = "products"

type productMongoRepository struct {
	db *mongo.Database
}

func NewProductMongoRepository(db *mongo.Database) ProductRepository {
	return &productMongoRepository{db: db}
}

func (r *productMongoRepository) CreateProduct(
	ctx context.Context,
	product *model.Product,
) (*model.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := r.db.Collection(productCollection).InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		product.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return product, nil
}

func (r *productMongoRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(productCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

// SearchProducts returns products whose name contains the query,
// case-insensitively. An empty query matches everything.
func (r *productMongoRepository) SearchProducts(ctx context.Context, query string) ([]*model.Product, error) {
	filter := bson.M{
		"name": bson.M{"$regex": query, "$options": "i"},
	}

	cursor, err := r.db.Collection(productCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*model.Product
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productMongoRepository) UpdateProduct(
	ctx context.Context,
	id string,
	params UpdateProductParams,
) (*model.Product, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Price != nil {
		updateMap["price"] = *params.Price
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Image != nil {
		updateMap["image"] = *params.Image
	}
	if params.Category != nil {
		updateMap["category"] = *params.Category
	}
	if params.SubCategory != nil {
		updateMap["sub_category"] = *params.SubCategory
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no product fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(productCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productMongoRepository) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(productCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}
