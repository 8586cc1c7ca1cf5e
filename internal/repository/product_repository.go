package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, productID string) (model.Product, error)
}
