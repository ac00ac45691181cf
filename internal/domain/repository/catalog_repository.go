package repository

import (
	"context"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

// CatalogRepository consultas de existencia sobre datos de referencia (solo lectura).
// Cada Get devuelve nil, nil cuando el registro no existe.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	GetProvider(ctx context.Context, id int64) (*entity.Provider, error)
	GetCustomer(ctx context.Context, id int64) (*entity.Customer, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
}
