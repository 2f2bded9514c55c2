package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
)

type fakeProductRepo struct {
	products map[string]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*model.Product)}
}

func (f *fakeProductRepo) CreateProduct(_ context.Context, product *model.Product) (*model.Product, error) {
	product.ID = bson.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	f.products[product.ID.Hex()] = product
	return product, nil
}

func (f *fakeProductRepo) GetProduct(_ context.Context, id string) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return product, nil
}

func (f *fakeProductRepo) SearchProducts(_ context.Context, query string) ([]*model.Product, error) {
	var matches []*model.Product
	for _, product := range f.products {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(query)) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (f *fakeProductRepo) UpdateProduct(
	_ context.Context,
	id string,
	params repository.UpdateProductParams,
) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		product.Name = *params.Name
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Image != nil {
		product.Image = *params.Image
	}

	return product, nil
}

func (f *fakeProductRepo) DeleteProduct(_ context.Context, id string) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.products, id)
	return product, nil
}

func TestProductCRUD(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUsecase(repo)
	ctx := context.Background()

	created, err := uc.CreateProduct(ctx, &model.Product{Name: "Desk Lamp", Price: 19.99})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	got, err := uc.GetProduct(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "Desk Lamp", got.Name)

	_, err = uc.GetProduct(ctx, "bad-id")
	require.ErrorIs(t, err, ErrProductNotFound)

	matches, err := uc.SearchProducts(ctx, "lamp")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	price := 24.99
	updated, err := uc.UpdateProduct(ctx, created.ID.Hex(), repository.UpdateProductParams{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 24.99, updated.Price)

	require.NoError(t, uc.DeleteProduct(ctx, created.ID.Hex()))

	err = uc.DeleteProduct(ctx, created.ID.Hex())
	require.ErrorIs(t, err, ErrProductNotFound)
}
