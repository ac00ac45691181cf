package sales

import (
	"context"
	"fmt"
)

// ReceiptUseCase genera el recibo PDF de una venta.
type ReceiptUseCase struct {
	sales     *SaleUseCase
	generator ReceiptGenerator
	store     StoreInfo
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales *SaleUseCase, generator ReceiptGenerator, store StoreInfo) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator, store: store}
}

// Download devuelve el PDF y el nombre de archivo. domain.ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) Download(ctx context.Context, saleID int64) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.sales.Get(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateReceipt(ctx, uc.store, *sale)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%d.pdf", sale.ID), nil
}
