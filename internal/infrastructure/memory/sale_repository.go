package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y detalles en memoria.
type SaleRepo struct {
	s *Store
}

func (r *SaleRepo) CreateDetail(_ context.Context, d *entity.SaleDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.nextDetailID++
	d.ID = r.s.data.nextDetailID
	stored := *d
	stored.Items = d.Items.Clone()
	r.s.data.details[d.ID] = stored
	return nil
}

func (r *SaleRepo) UpdateDetail(_ context.Context, d *entity.SaleDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.details[d.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *d
	stored.Items = d.Items.Clone()
	r.s.data.details[d.ID] = stored
	return nil
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.nextSaleID++
	sale.ID = r.s.data.nextSaleID
	r.s.data.sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.sales[sale.ID] = *sale
	return nil
}

// GetByIDForUpdate devuelve nil, nil si la venta no existe.
func (r *SaleRepo) GetByIDForUpdate(_ context.Context, id int64) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.data.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

// GetDetail devuelve nil, nil si el detalle no existe.
func (r *SaleRepo) GetDetail(_ context.Context, detailID int64) (*entity.SaleDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.data.details[detailID]
	if !ok {
		return nil, nil
	}
	d.Items = d.Items.Clone()
	return &d, nil
}

// GetView devuelve nil, nil si la venta no existe.
func (r *SaleRepo) GetView(_ context.Context, id int64) (*entity.SaleView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.data.sales[id]
	if !ok {
		return nil, nil
	}
	v := r.s.saleView(sale)
	return &v, nil
}

// List filtra y ordena por fecha descendente, luego id descendente.
func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]entity.SaleView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.SaleView, 0)
	for _, sale := range r.s.data.sales {
		switch {
		case f.CustomerID != nil && sale.CustomerID != *f.CustomerID:
			continue
		case f.UserID != nil && sale.UserID != *f.UserID:
			continue
		case f.From != nil && sale.Date.Before(*f.From):
			continue
		case f.To != nil && !sale.Date.Before(*f.To):
			continue
		}
		out = append(out, r.s.saleView(sale))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *SaleRepo) ListChronological(_ context.Context) ([]entity.SaleView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.SaleView, 0, len(r.s.data.sales))
	for _, sale := range r.s.data.sales {
		out = append(out, r.s.saleView(sale))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete elimina la venta y su detalle. Los movimientos no se tocan.
func (r *SaleRepo) Delete(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.sales, sale.ID)
	delete(r.s.data.details, sale.DetailID)
	return nil
}

// LockBackfill no hace nada: el TxRunner ya serializa las transacciones.
func (r *SaleRepo) LockBackfill(context.Context) error { return nil }

func (s *Store) saleView(sale entity.Sale) entity.SaleView {
	d := s.data.details[sale.DetailID]
	d.Items = d.Items.Clone()
	return entity.SaleView{
		Sale:         sale,
		CustomerName: s.data.customers[sale.CustomerID].Name,
		UserName:     s.data.users[sale.UserID].Name,
		Detail:       d,
	}
}
