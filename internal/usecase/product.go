package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
)

// ProductUsecase defines catalog operations.
type ProductUsecase interface {
	SearchProducts(ctx context.Context, query string) ([]*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, params repository.UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

var ErrProductNotFound = errors.New("product not found")

type productUsecase struct {
	productRepo repository.ProductRepository
}

// NewProductUsecase creates a new instance of ProductUsecase.
func NewProductUsecase(productRepo repository.ProductRepository) ProductUsecase {
	return &productUsecase{productRepo: productRepo}
}

func (u *productUsecase) SearchProducts(ctx context.Context, query string) ([]*model.Product, error) {
	return u.productRepo.SearchProducts(ctx, query)
}

func (u *productUsecase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrProductNotFound
	}

	product, err := u.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}

		return nil, err
	}

	return product, nil
}

func (u *productUsecase) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	return u.productRepo.CreateProduct(ctx, product)
}

func (u *productUsecase) UpdateProduct(
	ctx context.Context,
	id string,
	params repository.UpdateProductParams,
) (*model.Product, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrProductNotFound
	}

	product, err := u.productRepo.UpdateProduct(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}

		return nil, err
	}

	return product, nil
}

func (u *productUsecase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return ErrProductNotFound
	}

	if _, err := u.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProductNotFound
		}

		return err
	}

	return nil
}
