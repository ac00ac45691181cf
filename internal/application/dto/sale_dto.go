package dto

import "github.com/shopspring/decimal"

// SaleItemRequest línea de venta recibida.
type SaleItemRequest struct {
	ProductID *int64           `json:"id_producto" validate:"required"`
	Quantity  *decimal.Decimal `json:"cantidad" validate:"required"`
	UnitPrice *decimal.Decimal `json:"precio_unitario" validate:"required"`
}

// CreateSaleRequest body para POST /api/sales.
// id_usuario puede omitirse si llega el header X-User-Id.
type CreateSaleRequest struct {
	Date       string            `json:"fecha,omitempty"` // YYYY-MM-DD, por defecto hoy
	CustomerID *int64            `json:"id_cliente" validate:"required"`
	UserID     *int64            `json:"id_usuario"`
	Total      *decimal.Decimal  `json:"total" validate:"required"`
	Items      []SaleItemRequest `json:"productos" validate:"required,min=1,dive"`
}

// UpdateSaleRequest body para PUT /api/sales/:id. Todos los campos son opcionales;
// si llega productos se revierte el stock anterior y se vuelve a descontar.
type UpdateSaleRequest struct {
	Date       string            `json:"fecha,omitempty"`
	CustomerID *int64            `json:"id_cliente,omitempty"`
	UserID     *int64            `json:"id_usuario,omitempty"`
	Total      *decimal.Decimal  `json:"total,omitempty"`
	Items      []SaleItemRequest `json:"productos,omitempty" validate:"omitempty,min=1,dive"`
}

// SaleListQuery filtros de GET /api/sales.
type SaleListQuery struct {
	PageRequest
	CustomerID int64  `query:"id_cliente"`
	UserID     int64  `query:"id_usuario"`
	From       string `query:"desde"`
	To         string `query:"hasta"`
}

// SaleItemResponse línea del snapshot de la venta.
type SaleItemResponse struct {
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"nombre"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta compuesta: cabecera, nombres y detalle.
type SaleResponse struct {
	ID           int64              `json:"id_venta"`
	Date         string             `json:"fecha"`
	CustomerID   int64              `json:"id_cliente"`
	UserID       int64              `json:"id_usuario"`
	DetailID     int64              `json:"id_detalle_venta"`
	Total        decimal.Decimal    `json:"total"`
	CustomerName string             `json:"cliente_nombre"`
	UserName     string             `json:"usuario_nombre"`
	Items        []SaleItemResponse `json:"productos"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          decimal.Decimal    `json:"iva"`
}

// BackfillResponse resultado de POST /api/sales/generate-retroactive-movements.
type BackfillResponse struct {
	MovementsCreated int      `json:"movementsCreated"`
	SalesProcessed   int      `json:"salesProcessed"`
	Errors           []string `json:"errors,omitempty"`
}
