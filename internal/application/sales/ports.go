package sales

import (
	"context"

	"github.com/jhoicas/licorera-api/internal/application/dto"
)

// StoreInfo datos del establecimiento impresos en el recibo.
type StoreInfo struct {
	Name    string
	NIT     string
	Address string
	Phone   string
}

// ReceiptGenerator genera la representación PDF de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, store StoreInfo, sale dto.SaleResponse) ([]byte, error)
}
