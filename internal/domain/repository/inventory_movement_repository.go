package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

// MovementFilter especificación componible para listar movimientos.
// Los campos nil no filtran. Limit 0 = sin límite.
type MovementFilter struct {
	InventoryID *int64
	ProductID   *int64
	ProviderID  *int64
	SaleID      *int64
	Type        string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// SaleOutflowQuery identifica la SALIDA que corresponde a una línea de venta.
type SaleOutflowQuery struct {
	SaleID    int64
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Date      time.Time
}

// InventoryMovementRepository puerto de persistencia del libro de movimientos (append-only).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetView(ctx context.Context, id int64) (*entity.MovementView, error)
	List(ctx context.Context, filter MovementFilter) ([]entity.MovementView, error)
	CountByInventory(ctx context.Context, inventoryID int64) (int, error)
	Summarize(ctx context.Context, inventoryID int64) (*entity.MovementSummary, error)
	// FindSaleOutflows devuelve los IDs de las SALIDAS del producto con igual cantidad y precio
	// unitario ligadas a la venta, o sin venta asociada y registradas en la fecha de la venta.
	// Primero las ligadas, luego por ID.
	FindSaleOutflows(ctx context.Context, q SaleOutflowQuery) ([]int64, error)
}
