// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa en tests y con DB_DRIVER=memory para correr la API sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

// Store estado en memoria. Las transacciones se serializan con txMu, lo que equivale
// a bloquear cualquier fila que toquen. Cada transacción trabaja sobre una copia del
// estado que solo se publica en data al confirmar.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
	now  func() time.Time
}

type state struct {
	products  map[int64]entity.Product
	providers map[int64]entity.Provider
	customers map[int64]entity.Customer
	users     map[int64]entity.User
	inventory map[int64]entity.InventoryRecord
	movements []entity.InventoryMovement
	sales     map[int64]entity.Sale
	details   map[int64]entity.SaleDetail

	nextInventoryID int64
	nextMovementID  int64
	nextSaleID      int64
	nextDetailID    int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		data: state{
			products:  map[int64]entity.Product{},
			providers: map[int64]entity.Provider{},
			customers: map[int64]entity.Customer{},
			users:     map[int64]entity.User{},
			inventory: map[int64]entity.InventoryRecord{},
			sales:     map[int64]entity.Sale{},
			details:   map[int64]entity.SaleDetail{},
		},
		now: time.Now,
	}
}

func (s state) clone() state {
	c := s
	c.products = cloneMap(s.products)
	c.providers = cloneMap(s.providers)
	c.customers = cloneMap(s.customers)
	c.users = cloneMap(s.users)
	c.inventory = cloneMap(s.inventory)
	c.sales = cloneMap(s.sales)
	c.details = make(map[int64]entity.SaleDetail, len(s.details))
	for k, v := range s.details {
		v.Items = v.Items.Clone()
		c.details[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	return c
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Repos devuelve los repositorios sobre el store (fuera de transacción).
func (s *Store) Repos() repository.TxRepos {
	return repository.TxRepos{
		Inventory: &InventoryRepo{s: s},
		Movements: &MovementRepo{s: s},
		Sales:     &SaleRepo{s: s},
		Catalog:   &CatalogRepo{s: s},
	}
}

// Users repositorio de usuarios para login.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con acceso exclusivo al store sobre una copia de trabajo. Los lectores
// fuera de la transacción siguen viendo el último estado confirmado.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run inicia la "transacción", ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	work := &Store{data: r.s.data.clone(), now: r.s.now}
	r.s.mu.RUnlock()

	// Un pánico en fn descarta work sin tocar r.s.data.
	if err := fn(work.Repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	r.s.data = work.data
	r.s.mu.Unlock()
	return nil
}

// SeedProduct agrega un producto al catálogo.
func (s *Store) SeedProduct(p entity.Product) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = p
}

// SeedProvider agrega un proveedor al catálogo.
func (s *Store) SeedProvider(p entity.Provider) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.providers[p.ID] = p
}

// SeedCustomer agrega un cliente al catálogo.
func (s *Store) SeedCustomer(c entity.Customer) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.customers[c.ID] = c
}

// SeedUser agrega un usuario.
func (s *Store) SeedUser(u entity.User) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.ID] = u
}

// SeedStock crea (o completa) el inventario de un producto con una ENTRADA de qty unidades,
// de modo que la cantidad siga siendo el neto de los movimientos.
func (s *Store) SeedStock(productID, providerID int64, qty decimal.Decimal) int64 {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	rec, ok := s.findInventoryByProduct(productID)
	if !ok {
		s.data.nextInventoryID++
		rec = entity.InventoryRecord{ID: s.data.nextInventoryID, ProductID: productID, Quantity: decimal.Zero}
	}
	if qty.IsPositive() {
		price := s.data.products[productID].PurchasePrice
		provider := providerID
		s.data.nextMovementID++
		s.data.movements = append(s.data.movements, entity.InventoryMovement{
			ID:          s.data.nextMovementID,
			InventoryID: rec.ID,
			Type:        entity.MovementTypeEntrada,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       qty.Mul(price),
			ProviderID:  &provider,
			Date:        now,
		})
		rec.Quantity = rec.Quantity.Add(qty)
	}
	rec.UpdatedAt = now
	s.data.inventory[rec.ID] = rec
	return rec.ID
}

// SeedSale inserta una venta con su detalle sin tocar el inventario (ventas históricas
// anteriores al descuento automático de stock).
func (s *Store) SeedSale(sale entity.Sale, items entity.SaleItems) int64 {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextDetailID++
	subtotal := items.Subtotal()
	detail := entity.SaleDetail{
		ID:       s.data.nextDetailID,
		Subtotal: subtotal,
		Tax:      entity.ComputeTax(subtotal),
		Items:    items.Clone(),
	}
	s.data.details[detail.ID] = detail
	s.data.nextSaleID++
	sale.ID = s.data.nextSaleID
	sale.DetailID = detail.ID
	s.data.sales[sale.ID] = sale
	return sale.ID
}

// Movements copia de todos los movimientos, en orden de inserción.
func (s *Store) Movements() []entity.InventoryMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.InventoryMovement(nil), s.data.movements...)
}

// StockOf cantidad actual del inventario de un producto (0 si no tiene registro).
func (s *Store) StockOf(productID int64) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.findInventoryByProduct(productID)
	if !ok {
		return decimal.Zero
	}
	return rec.Quantity
}

// SalesCount cantidad de ventas y de detalles almacenados.
func (s *Store) SalesCount() (sales, details int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.sales), len(s.data.details)
}

// findInventoryByProduct requiere mu tomado.
func (s *Store) findInventoryByProduct(productID int64) (entity.InventoryRecord, bool) {
	for _, rec := range s.data.inventory {
		if rec.ProductID == productID {
			return rec, true
		}
	}
	return entity.InventoryRecord{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortMovementsDesc(list []entity.MovementView) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
