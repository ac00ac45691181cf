package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

// InventoryRepository puerto de persistencia de registros de inventario.
// Los métodos *ForUpdate bloquean la fila hasta el fin de la transacción.
type InventoryRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.InventoryRecord, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.InventoryRecord, error)
	GetByProductForUpdate(ctx context.Context, productID int64) (*entity.InventoryRecord, error)
	// CreateIfMissing inserta un registro en 0 si el producto no tiene uno; no falla si ya existe.
	CreateIfMissing(ctx context.Context, productID int64, at time.Time) error
	// Create inserta un registro nuevo; devuelve domain.ErrConflict si el producto ya tiene uno.
	Create(ctx context.Context, record *entity.InventoryRecord) error
	UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal, at time.Time) error
	Delete(ctx context.Context, id int64) error
	GetView(ctx context.Context, id int64) (*entity.InventoryView, error)
	ListViews(ctx context.Context) ([]entity.InventoryView, error)
}
