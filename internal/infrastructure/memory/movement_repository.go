package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct {
	s *Store
}

// Create asigna ID y agrega el movimiento al final del libro.
func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.nextMovementID++
	m.ID = r.s.data.nextMovementID
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

// GetView devuelve el movimiento enriquecido o nil, nil.
func (r *MovementRepo) GetView(_ context.Context, id int64) (*entity.MovementView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.data.movements {
		if m.ID == id {
			v := r.s.movementView(m)
			return &v, nil
		}
	}
	return nil, nil
}

// List aplica el filtro y ordena por fecha descendente.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]entity.MovementView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.MovementView, 0)
	for _, m := range r.s.data.movements {
		v := r.s.movementView(m)
		if !matches(v, f) {
			continue
		}
		out = append(out, v)
	}
	sortMovementsDesc(out)
	return page(out, f.Limit, f.Offset), nil
}

func matches(v entity.MovementView, f repository.MovementFilter) bool {
	switch {
	case f.InventoryID != nil && v.InventoryID != *f.InventoryID:
		return false
	case f.ProductID != nil && v.ProductID != *f.ProductID:
		return false
	case f.ProviderID != nil && (v.ProviderID == nil || *v.ProviderID != *f.ProviderID):
		return false
	case f.SaleID != nil && (v.SaleID == nil || *v.SaleID != *f.SaleID):
		return false
	case f.Type != "" && v.Type != f.Type:
		return false
	case f.From != nil && v.Date.Before(*f.From):
		return false
	case f.To != nil && !v.Date.Before(*f.To):
		return false
	}
	return true
}

// CountByInventory cantidad de movimientos del registro.
func (r *MovementRepo) CountByInventory(_ context.Context, inventoryID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.data.movements {
		if m.InventoryID == inventoryID {
			n++
		}
	}
	return n, nil
}

// Summarize agrega ENTRADAS y SALIDAS del registro.
func (r *MovementRepo) Summarize(_ context.Context, inventoryID int64) (*entity.MovementSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := &entity.MovementSummary{
		InventoryID:      inventoryID,
		QuantityEntradas: decimal.Zero,
		QuantitySalidas:  decimal.Zero,
		ValueEntradas:    decimal.Zero,
		ValueSalidas:     decimal.Zero,
	}
	for _, m := range r.s.data.movements {
		if m.InventoryID != inventoryID {
			continue
		}
		sum.TotalMovements++
		switch m.Type {
		case entity.MovementTypeEntrada:
			sum.TotalEntradas++
			sum.QuantityEntradas = sum.QuantityEntradas.Add(m.Quantity)
			sum.ValueEntradas = sum.ValueEntradas.Add(m.Total)
		case entity.MovementTypeSalida:
			sum.TotalSalidas++
			sum.QuantitySalidas = sum.QuantitySalidas.Add(m.Quantity)
			sum.ValueSalidas = sum.ValueSalidas.Add(m.Total)
		}
	}
	return sum, nil
}

// FindSaleOutflows ver repository.InventoryMovementRepository.
func (r *MovementRepo) FindSaleOutflows(_ context.Context, q repository.SaleOutflowQuery) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var linked, legacy []int64
	for _, m := range r.s.data.movements {
		if m.Type != entity.MovementTypeSalida {
			continue
		}
		rec, ok := r.s.data.inventory[m.InventoryID]
		if !ok || rec.ProductID != q.ProductID {
			continue
		}
		if !m.Quantity.Equal(q.Quantity) || !m.UnitPrice.Equal(q.UnitPrice) {
			continue
		}
		switch {
		case m.SaleID != nil && *m.SaleID == q.SaleID:
			linked = append(linked, m.ID)
		case m.SaleID == nil && sameDay(m.Date, q.Date):
			legacy = append(legacy, m.ID)
		}
	}
	return append(linked, legacy...), nil
}

func (s *Store) movementView(m entity.InventoryMovement) entity.MovementView {
	rec := s.data.inventory[m.InventoryID]
	p := s.data.products[rec.ProductID]
	v := entity.MovementView{
		InventoryMovement: m,
		CurrentStock:      rec.Quantity,
		ProductID:         rec.ProductID,
		ProductName:       p.Name,
		PurchasePrice:     p.PurchasePrice,
		SalePrice:         p.SalePrice,
		LiquorTypeName:    p.LiquorTypeName,
	}
	if m.ProviderID != nil {
		v.ProviderName = s.data.providers[*m.ProviderID].Name
	}
	return v
}
