package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo registros de inventario en memoria.
type InventoryRepo struct {
	s *Store
}

// GetByID devuelve nil, nil si no existe.
func (r *InventoryRepo) GetByID(_ context.Context, id int64) (*entity.InventoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.data.inventory[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// GetByIDForUpdate igual que GetByID; el bloqueo lo da el TxRunner.
func (r *InventoryRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	return r.GetByID(ctx, id)
}

// GetByProductForUpdate devuelve el registro del producto o nil, nil.
func (r *InventoryRepo) GetByProductForUpdate(_ context.Context, productID int64) (*entity.InventoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.findInventoryByProduct(productID)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// CreateIfMissing crea el registro en 0 si el producto no tiene uno.
func (r *InventoryRepo) CreateIfMissing(_ context.Context, productID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.findInventoryByProduct(productID); ok {
		return nil
	}
	r.s.data.nextInventoryID++
	id := r.s.data.nextInventoryID
	r.s.data.inventory[id] = entity.InventoryRecord{ID: id, ProductID: productID, Quantity: decimal.Zero, UpdatedAt: at}
	return nil
}

// Create inserta el registro; domain.ErrConflict si el producto ya tiene uno.
func (r *InventoryRepo) Create(_ context.Context, record *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.findInventoryByProduct(record.ProductID); ok {
		return domain.ErrConflict
	}
	r.s.data.nextInventoryID++
	record.ID = r.s.data.nextInventoryID
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = r.s.now()
	}
	r.s.data.inventory[record.ID] = *record
	return nil
}

// UpdateQuantity persiste la cantidad calculada por el Ledger.
func (r *InventoryRepo) UpdateQuantity(_ context.Context, id int64, quantity decimal.Decimal, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.data.inventory[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Quantity = quantity
	rec.UpdatedAt = at
	r.s.data.inventory[id] = rec
	return nil
}

// Delete elimina el registro.
func (r *InventoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.inventory[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.inventory, id)
	return nil
}

// GetView devuelve el registro con datos del producto o nil, nil.
func (r *InventoryRepo) GetView(_ context.Context, id int64) (*entity.InventoryView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.data.inventory[id]
	if !ok {
		return nil, nil
	}
	v := r.s.inventoryView(rec)
	return &v, nil
}

// ListViews lista todos los registros, el actualizado más recientemente primero.
func (r *InventoryRepo) ListViews(_ context.Context) ([]entity.InventoryView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.InventoryView, 0, len(r.s.data.inventory))
	for _, rec := range r.s.data.inventory {
		out = append(out, r.s.inventoryView(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) inventoryView(rec entity.InventoryRecord) entity.InventoryView {
	p := s.data.products[rec.ProductID]
	return entity.InventoryView{
		InventoryRecord: rec,
		ProductName:     p.Name,
		PurchasePrice:   p.PurchasePrice,
		SalePrice:       p.SalePrice,
		LiquorTypeName:  p.LiquorTypeName,
	}
}
