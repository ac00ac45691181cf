package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada = "ENTRADA" // aumenta el stock
	MovementTypeSalida  = "SALIDA"  // disminuye el stock
)

// IsValidMovementType indica si t es ENTRADA o SALIDA.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// AmountScale decimales con que se guardan cantidades y precios.
const AmountScale = 2

// FitsAmountScale indica si v se guarda sin redondeo.
func FitsAmountScale(v decimal.Decimal) bool {
	return v.Equal(v.Round(AmountScale))
}

// InventoryMovement asiento inmutable del libro de inventario.
// SaleID se llena cuando el movimiento lo produjo una venta (creación, edición o backfill).
type InventoryMovement struct {
	ID          int64
	InventoryID int64
	Type        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	ProviderID  *int64
	SaleID      *int64
	Date        time.Time
}

// MovementView movimiento enriquecido con stock actual y nombres para mostrar.
type MovementView struct {
	InventoryMovement
	CurrentStock   decimal.Decimal
	ProductID      int64
	ProductName    string
	PurchasePrice  decimal.Decimal
	SalePrice      decimal.Decimal
	LiquorTypeName string
	ProviderName   string
}

// MovementSummary agregados de movimientos de un registro de inventario.
type MovementSummary struct {
	InventoryID      int64
	ProductName      string
	TotalMovements   int
	TotalEntradas    int
	TotalSalidas     int
	QuantityEntradas decimal.Decimal
	QuantitySalidas  decimal.Decimal
	ValueEntradas    decimal.Decimal
	ValueSalidas     decimal.Decimal
	CurrentStock     decimal.Decimal
}
