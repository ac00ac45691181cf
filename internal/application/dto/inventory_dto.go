package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/inventory-movements.
type CreateMovementRequest struct {
	InventoryID *int64           `json:"id_inventario" validate:"required"`
	Type        string           `json:"tipo_movimiento" validate:"required,oneof=ENTRADA SALIDA"`
	Quantity    *decimal.Decimal `json:"cantidad" validate:"required"`
	UnitPrice   *decimal.Decimal `json:"precio_unitario" validate:"required"`
	ProviderID  *int64           `json:"id_proveedor" validate:"required_if=Type ENTRADA"`
}

// MovementListQuery filtros de GET /api/inventory-movements.
type MovementListQuery struct {
	PageRequest
	Type       string `query:"tipo"`
	ProductID  int64  `query:"id_producto"`
	ProviderID int64  `query:"id_proveedor"`
	From       string `query:"desde"` // YYYY-MM-DD
	To         string `query:"hasta"` // YYYY-MM-DD
}

// MovementResponse movimiento con stock actual y datos de producto/proveedor.
type MovementResponse struct {
	ID             int64           `json:"id_movimiento"`
	InventoryID    int64           `json:"id_inventario"`
	Type           string          `json:"tipo_movimiento"`
	Quantity       decimal.Decimal `json:"cantidad"`
	UnitPrice      decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
	ProviderID     *int64          `json:"id_proveedor"`
	SaleID         *int64          `json:"id_venta,omitempty"`
	Date           time.Time       `json:"fecha_movimiento"`
	CurrentStock   decimal.Decimal `json:"stock_actual"`
	ProductID      int64           `json:"id_producto"`
	ProductName    string          `json:"producto_nombre"`
	PurchasePrice  decimal.Decimal `json:"precio_compra"`
	SalePrice      decimal.Decimal `json:"precio_venta"`
	LiquorTypeName string          `json:"tipo_licor_nombre,omitempty"`
	ProviderName   string          `json:"proveedor_nombre,omitempty"`
}

// MovementSummaryResponse agregados por registro de inventario.
type MovementSummaryResponse struct {
	InventoryID      int64           `json:"id_inventario"`
	ProductName      string          `json:"producto_nombre"`
	TotalMovements   int             `json:"total_movimientos"`
	TotalEntradas    int             `json:"total_entradas"`
	TotalSalidas     int             `json:"total_salidas"`
	QuantityEntradas decimal.Decimal `json:"cantidad_entradas"`
	QuantitySalidas  decimal.Decimal `json:"cantidad_salidas"`
	ValueEntradas    decimal.Decimal `json:"valor_entradas"`
	ValueSalidas     decimal.Decimal `json:"valor_salidas"`
	CurrentStock     decimal.Decimal `json:"stock_actual"`
}

// CreateInventoryRequest body para POST /api/inventory.
// Una cantidad inicial positiva se registra como ENTRADA y exige proveedor.
type CreateInventoryRequest struct {
	ProductID  *int64           `json:"id_producto" validate:"required"`
	Quantity   *decimal.Decimal `json:"cantidad,omitempty"`
	ProviderID *int64           `json:"id_proveedor,omitempty"`
}

// InventoryResponse registro de inventario con datos del producto.
type InventoryResponse struct {
	ID             int64           `json:"id_inventario"`
	ProductID      int64           `json:"id_producto"`
	Quantity       decimal.Decimal `json:"cantidad"`
	UpdatedAt      time.Time       `json:"fecha_actualizacion"`
	ProductName    string          `json:"producto_nombre"`
	PurchasePrice  decimal.Decimal `json:"precio_compra"`
	SalePrice      decimal.Decimal `json:"precio_venta"`
	LiquorTypeName string          `json:"tipo_licor_nombre,omitempty"`
}
