package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	domaininv "github.com/jhoicas/licorera-api/internal/domain/inventory"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

// Ledger es el único punto de escritura de la cantidad en inventario.
// Siempre opera con los repositorios de la transacción del llamador.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el Ledger.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// LockProducts bloquea los registros de inventario existentes de los productos en orden
// ascendente de ID. Toda transacción que escriba en varios productos lo llama antes de escribir.
func (l *Ledger) LockProducts(ctx context.Context, inv repository.InventoryRepository, productIDs []int64) error {
	ids := slices.Clone(productIDs)
	slices.Sort(ids)
	for _, id := range slices.Compact(ids) {
		if _, err := inv.GetByProductForUpdate(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// EnsureRecord devuelve el registro de inventario del producto bloqueado para update,
// creándolo en 0 si no existe. Falla con ReferenceError si el producto no está en el catálogo.
func (l *Ledger) EnsureRecord(ctx context.Context, repos repository.TxRepos, productID int64) (*entity.InventoryRecord, *entity.Product, error) {
	product, err := repos.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, &domain.ReferenceError{Entity: "producto", ID: productID}
	}
	rec, err := repos.Inventory.GetByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if rec != nil {
		return rec, product, nil
	}
	if err := repos.Inventory.CreateIfMissing(ctx, productID, l.now()); err != nil {
		return nil, nil, err
	}
	rec, err = repos.Inventory.GetByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, fmt.Errorf("inventario del producto %d no quedó creado", productID)
	}
	return rec, product, nil
}

// Apply suma (ENTRADA) o resta (SALIDA) quantity al registro y persiste la nueva cantidad.
// Una SALIDA mayor al stock se rechaza con InsufficientStockError sin escribir nada.
// El llamador debe asentar el movimiento correspondiente en la misma transacción (ver Post).
func (l *Ledger) Apply(ctx context.Context, inv repository.InventoryRepository, rec *entity.InventoryRecord, movementType string, quantity decimal.Decimal) error {
	next, err := domaininv.ApplyMovement(rec.Quantity, movementType, quantity)
	if err != nil {
		if errors.Is(err, domaininv.ErrShortfall) {
			return &domain.InsufficientStockError{
				ProductID: rec.ProductID,
				Available: rec.Quantity,
				Requested: quantity,
			}
		}
		return err
	}
	now := l.now()
	if err := inv.UpdateQuantity(ctx, rec.ID, next, now); err != nil {
		return err
	}
	rec.Quantity = next
	rec.UpdatedAt = now
	return nil
}

// Post aplica el movimiento al registro y lo asienta en el libro; las dos escrituras van en la tx de repos.
// Completa InventoryID, Total y, si viene vacía, la fecha del movimiento.
func (l *Ledger) Post(ctx context.Context, repos repository.TxRepos, rec *entity.InventoryRecord, product *entity.Product, mov *entity.InventoryMovement) error {
	if err := l.Apply(ctx, repos.Inventory, rec, mov.Type, mov.Quantity); err != nil {
		var serr *domain.InsufficientStockError
		if errors.As(err, &serr) && product != nil {
			serr.ProductName = product.Name
		}
		return err
	}
	mov.InventoryID = rec.ID
	mov.Total = mov.Quantity.Mul(mov.UnitPrice)
	if mov.Date.IsZero() {
		mov.Date = l.now()
	}
	return repos.Movements.Create(ctx, mov)
}
