package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord stock cacheado de un producto (uno por producto).
// Quantity solo cambia a través del Ledger y nunca es negativa.
type InventoryRecord struct {
	ID        int64
	ProductID int64
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// InventoryView registro de inventario con los datos del producto para mostrar.
type InventoryView struct {
	InventoryRecord
	ProductName    string
	PurchasePrice  decimal.Decimal
	SalePrice      decimal.Decimal
	LiquorTypeName string
}
