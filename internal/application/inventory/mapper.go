package inventory

import (
	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

func toMovementResponse(v entity.MovementView) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             v.ID,
		InventoryID:    v.InventoryID,
		Type:           v.Type,
		Quantity:       v.Quantity,
		UnitPrice:      v.UnitPrice,
		Total:          v.Total,
		ProviderID:     v.ProviderID,
		SaleID:         v.SaleID,
		Date:           v.Date,
		CurrentStock:   v.CurrentStock,
		ProductID:      v.ProductID,
		ProductName:    v.ProductName,
		PurchasePrice:  v.PurchasePrice,
		SalePrice:      v.SalePrice,
		LiquorTypeName: v.LiquorTypeName,
		ProviderName:   v.ProviderName,
	}
}

func toInventoryResponse(v entity.InventoryView) dto.InventoryResponse {
	return dto.InventoryResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		Quantity:       v.Quantity,
		UpdatedAt:      v.UpdatedAt,
		ProductName:    v.ProductName,
		PurchasePrice:  v.PurchasePrice,
		SalePrice:      v.SalePrice,
		LiquorTypeName: v.LiquorTypeName,
	}
}

func toSummaryResponse(s entity.MovementSummary) dto.MovementSummaryResponse {
	return dto.MovementSummaryResponse{
		InventoryID:      s.InventoryID,
		ProductName:      s.ProductName,
		TotalMovements:   s.TotalMovements,
		TotalEntradas:    s.TotalEntradas,
		TotalSalidas:     s.TotalSalidas,
		QuantityEntradas: s.QuantityEntradas,
		QuantitySalidas:  s.QuantitySalidas,
		ValueEntradas:    s.ValueEntradas,
		ValueSalidas:     s.ValueSalidas,
		CurrentStock:     s.CurrentStock,
	}
}
