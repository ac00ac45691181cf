package sales

import (
	"errors"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

func toSaleResponse(v entity.SaleView) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Detail.Items))
	for _, it := range v.Detail.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return dto.SaleResponse{
		ID:           v.ID,
		Date:         dto.FormatDate(v.Date),
		CustomerID:   v.CustomerID,
		UserID:       v.UserID,
		DetailID:     v.DetailID,
		Total:        v.Total,
		CustomerName: v.CustomerName,
		UserName:     v.UserName,
		Items:        items,
		Subtotal:     v.Detail.Subtotal,
		Tax:          v.Detail.Tax,
	}
}

// failureReason etiqueta de métrica para una venta abortada.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrReference):
		return "reference"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "store"
	}
}
