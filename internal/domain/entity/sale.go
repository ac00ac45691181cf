package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate IVA aplicado a todas las ventas.
var TaxRate = decimal.NewFromFloat(0.19)

// Sale cabecera de una venta. Siempre tiene exactamente un SaleDetail.
type Sale struct {
	ID         int64
	Date       time.Time // solo fecha
	CustomerID int64
	UserID     int64
	DetailID   int64
	Total      decimal.Decimal
}

// SaleItem línea vendida tal como quedó al momento de la venta.
type SaleItem struct {
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"nombre"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleItems snapshot de líneas; se persiste como JSONB.
type SaleItems []SaleItem

// Subtotal suma de los subtotales de línea.
func (items SaleItems) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// ProductIDs productos distintos del snapshot.
func (items SaleItems) ProductIDs() []int64 {
	out := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			out = append(out, it.ProductID)
		}
	}
	return out
}

// Clone copia profunda del snapshot.
func (items SaleItems) Clone() SaleItems {
	if items == nil {
		return nil
	}
	out := make(SaleItems, len(items))
	copy(out, items)
	return out
}

// SaleDetail snapshot desnormalizado: líneas, subtotal e IVA.
type SaleDetail struct {
	ID       int64
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Items    SaleItems
}

// ComputeTax IVA redondeado a unidades.
func ComputeTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(0)
}

// SaleView venta compuesta con nombres de cliente/vendedor y su detalle.
type SaleView struct {
	Sale
	CustomerName string
	UserName     string
	Detail       SaleDetail
}
