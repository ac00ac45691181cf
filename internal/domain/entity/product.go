package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo (licor). El catálogo es de solo lectura para el núcleo de inventario.
type Product struct {
	ID             int64
	Name           string
	LiquorTypeID   *int64
	LiquorTypeName string
	PurchasePrice  decimal.Decimal // precio_compra
	SalePrice      decimal.Decimal // precio_venta
}
