package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	products []models.Product
	created  []models.Product
}

func (s *stubRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	active := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *stubRepo) CreateBatch(ctx context.Context, products []models.Product) error {
	s.created = append(s.created, products...)
	s.products = append(s.products, products...)
	return nil
}

func TestListProductsConvertsCentsToDecimal(t *testing.T) {
	repo := &stubRepo{products: []models.Product{
		{ID: uuid.New(), Name: "Mechanical Keyboard", PriceCents: 9999, IsActive: true},
		{ID: uuid.New(), Name: "Old Listing", PriceCents: 100, IsActive: false},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	dtos, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	require.Equal(t, "Mechanical Keyboard", dtos[0].Name)
	require.Equal(t, "99.99", dtos[0].Price.StringFixed(2))
}

func TestGetProductNotFound(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestSeedIfEmpty(t *testing.T) {
	repo := &stubRepo{}
	require.NoError(t, SeedIfEmpty(context.Background(), repo, nil))
	require.Len(t, repo.created, 6)

	names := map[string]int{}
	for _, p := range repo.created {
		names[p.Name] = p.PriceCents
	}
	require.Equal(t, 9999, names["Mechanical Keyboard"])
	require.Equal(t, 5999, names["Wireless Mouse"])
	require.Equal(t, 39999, names["4K Monitor"])

	// second run is a no-op
	require.NoError(t, SeedIfEmpty(context.Background(), repo, nil))
	require.Len(t, repo.created, 6)
}
