package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents a catalog listing returned to clients. Price is the
// decimal unit amount derived from the stored integer cents.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	AvailableQty int             `json:"available_qty"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Service exposes catalog read operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

type service struct {
	repo ProductRepository
}

// NewService constructs a catalog service instance.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, ProductDTO{
			ID:           product.ID,
			Name:         product.Name,
			Description:  product.Description,
			Price:        priceFromCents(product.PriceCents),
			AvailableQty: product.AvailableQty,
			CategoryName: product.CategoryName,
			CreatedAt:    product.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ProductDTO{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        priceFromCents(product.PriceCents),
		AvailableQty: product.AvailableQty,
		CategoryName: product.CategoryName,
		CreatedAt:    product.CreatedAt,
	}
	return &dto, nil
}

func priceFromCents(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
}
