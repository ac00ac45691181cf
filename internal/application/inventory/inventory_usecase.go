package inventory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/validation"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
	"github.com/jhoicas/licorera-api/pkg/metrics"
)

// InventoryUseCase alta, consulta y baja de registros de inventario.
// La cantidad nunca se sobrescribe: el stock inicial entra como ENTRADA por el Ledger.
type InventoryUseCase struct {
	txRunner repository.TxRunner
	ledger   *Ledger
	invRepo  repository.InventoryRepository
	catalog  repository.CatalogRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(txRunner repository.TxRunner, ledger *Ledger, invRepo repository.InventoryRepository, catalog repository.CatalogRepository) *InventoryUseCase {
	return &InventoryUseCase{txRunner: txRunner, ledger: ledger, invRepo: invRepo, catalog: catalog}
}

// Create crea el registro de inventario de un producto. Falla con ConflictError si ya existe uno.
func (uc *InventoryUseCase) Create(ctx context.Context, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if err := validation.Struct("El producto es requerido", in); err != nil {
		return nil, err
	}
	initial := decimal.Zero
	if in.Quantity != nil {
		initial = *in.Quantity
	}
	if initial.IsNegative() {
		return nil, domain.NewValidationError("La cantidad no puede ser negativa", "cantidad")
	}
	if !entity.FitsAmountScale(initial) {
		return nil, domain.NewValidationError("La cantidad admite como máximo 2 decimales", "cantidad")
	}
	if initial.IsPositive() && in.ProviderID == nil {
		return nil, domain.NewValidationError("El proveedor es requerido para registrar stock inicial", "id_proveedor")
	}

	product, err := uc.catalog.GetProduct(ctx, *in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ReferenceError{Entity: "producto", ID: *in.ProductID}
	}
	if initial.IsPositive() {
		provider, err := uc.catalog.GetProvider(ctx, *in.ProviderID)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, &domain.ReferenceError{Entity: "proveedor", ID: *in.ProviderID}
		}
	}

	var id int64
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		existing, err := repos.Inventory.GetByProductForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateInventory()
		}
		rec := &entity.InventoryRecord{ProductID: product.ID, Quantity: decimal.Zero}
		if err := repos.Inventory.Create(ctx, rec); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return duplicateInventory()
			}
			return err
		}
		id = rec.ID
		if !initial.IsPositive() {
			return nil
		}
		return uc.ledger.Post(ctx, repos, rec, product, &entity.InventoryMovement{
			Type:       entity.MovementTypeEntrada,
			Quantity:   initial,
			UnitPrice:  product.PurchasePrice,
			ProviderID: in.ProviderID,
		})
	})
	if err != nil {
		return nil, err
	}
	if initial.IsPositive() {
		metrics.MovementsRecordedTotal.WithLabelValues(entity.MovementTypeEntrada).Inc()
	}
	return uc.Get(ctx, id)
}

func duplicateInventory() error {
	return &domain.ConflictError{Message: "Ya existe un registro de inventario para este producto"}
}

// List devuelve todos los registros de inventario con datos del producto.
func (uc *InventoryUseCase) List(ctx context.Context) ([]dto.InventoryResponse, error) {
	views, err := uc.invRepo.ListViews(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toInventoryResponse(v))
	}
	return out, nil
}

// Get devuelve un registro por ID o domain.ErrNotFound.
func (uc *InventoryUseCase) Get(ctx context.Context, id int64) (*dto.InventoryResponse, error) {
	view, err := uc.invRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	out := toInventoryResponse(*view)
	return &out, nil
}

// Delete elimina un registro sin movimientos. Con movimientos asociados falla con ConflictError.
func (uc *InventoryUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		rec, err := repos.Inventory.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		n, err := repos.Movements.CountByInventory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.ConflictError{Message: "No se puede eliminar el inventario porque tiene movimientos asociados"}
		}
		return repos.Inventory.Delete(ctx, id)
	})
}
