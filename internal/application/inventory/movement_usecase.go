package inventory

import (
	"context"
	"errors"
	"iter"

	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/validation"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
	"github.com/jhoicas/licorera-api/pkg/metrics"
)

const defaultPageSize = 200

// MovementUseCase registra movimientos de inventario (ENTRADA/SALIDA) y expone sus consultas.
type MovementUseCase struct {
	txRunner repository.TxRunner
	ledger   *Ledger
	invRepo  repository.InventoryRepository
	movRepo  repository.InventoryMovementRepository
	catalog  repository.CatalogRepository
	log      zerolog.Logger
	pageSize int
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner repository.TxRunner,
	ledger *Ledger,
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	catalog repository.CatalogRepository,
	log zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		invRepo:  invRepo,
		movRepo:  movRepo,
		catalog:  catalog,
		log:      log,
		pageSize: defaultPageSize,
	}
}

// Create valida y registra un movimiento sobre un registro de inventario existente.
// Bloquea la fila del inventario (SELECT FOR UPDATE), aplica el Ledger y asienta el movimiento en una sola transacción.
func (uc *MovementUseCase) Create(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	if in.ProviderID != nil {
		provider, err := uc.catalog.GetProvider(ctx, *in.ProviderID)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, &domain.ReferenceError{Entity: "proveedor", ID: *in.ProviderID}
		}
	}

	var view *entity.MovementView
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		rec, err := repos.Inventory.GetByIDForUpdate(ctx, *in.InventoryID)
		if err != nil {
			return err
		}
		if rec == nil {
			return &domain.ReferenceError{Entity: "inventario", ID: *in.InventoryID}
		}
		product, err := repos.Catalog.GetProduct(ctx, rec.ProductID)
		if err != nil {
			return err
		}
		mov := &entity.InventoryMovement{
			Type:       in.Type,
			Quantity:   *in.Quantity,
			UnitPrice:  *in.UnitPrice,
			ProviderID: in.ProviderID,
		}
		if err := uc.ledger.Post(ctx, repos, rec, product, mov); err != nil {
			return err
		}
		view, err = repos.Movements.GetView(ctx, mov.ID)
		return err
	})
	if err != nil {
		var serr *domain.InsufficientStockError
		if errors.As(err, &serr) {
			metrics.InsufficientStockTotal.Inc()
			uc.log.Warn().
				Int64("inventory_id", *in.InventoryID).
				Str("available", serr.Available.String()).
				Str("requested", serr.Requested.String()).
				Msg("salida rechazada por stock insuficiente")
		}
		return nil, err
	}
	metrics.MovementsRecordedTotal.WithLabelValues(in.Type).Inc()
	out := toMovementResponse(*view)
	return &out, nil
}

func validateMovement(in dto.CreateMovementRequest) error {
	err := validation.Struct("Faltan campos requeridos o son inválidos", in)
	var verr *domain.ValidationError
	switch {
	case err == nil:
		verr = domain.NewValidationError("Faltan campos requeridos o son inválidos")
	case errors.As(err, &verr):
	default:
		return err
	}
	if in.Quantity != nil && (!in.Quantity.IsPositive() || !entity.FitsAmountScale(*in.Quantity)) {
		verr.Add("cantidad")
	}
	if in.UnitPrice != nil && (in.UnitPrice.IsNegative() || !entity.FitsAmountScale(*in.UnitPrice)) {
		verr.Add("precio_unitario")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// List devuelve los movimientos que cumplen el filtro, del más reciente al más antiguo.
func (uc *MovementUseCase) List(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	filter, err := movementFilterFromQuery(q)
	if err != nil {
		return nil, err
	}
	views, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toMovementResponse(v))
	}
	return out, nil
}

func movementFilterFromQuery(q dto.MovementListQuery) (repository.MovementFilter, error) {
	f := repository.MovementFilter{Limit: q.Limit, Offset: q.Offset}
	if err := validation.Struct("Paginación inválida", q.PageRequest); err != nil {
		return f, err
	}
	if q.Type != "" {
		if !entity.IsValidMovementType(q.Type) {
			return f, domain.NewValidationError("Tipo de movimiento inválido", "tipo")
		}
		f.Type = q.Type
	}
	if q.ProductID > 0 {
		f.ProductID = &q.ProductID
	}
	if q.ProviderID > 0 {
		f.ProviderID = &q.ProviderID
	}
	from, err := dto.ParseDate(q.From)
	if err != nil {
		return f, domain.NewValidationError("Fecha inválida", "desde")
	}
	to, err := dto.ParseDate(q.To)
	if err != nil {
		return f, domain.NewValidationError("Fecha inválida", "hasta")
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	f.From, f.To = from, to
	return f, nil
}

// Get devuelve un movimiento por ID o domain.ErrNotFound.
func (uc *MovementUseCase) Get(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	view, err := uc.movRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	out := toMovementResponse(*view)
	return &out, nil
}

// ListByInventory devuelve una secuencia perezosa de los movimientos de un registro de inventario,
// del más reciente al más antiguo. Se consulta por páginas y cada recorrido vuelve a consultar.
func (uc *MovementUseCase) ListByInventory(ctx context.Context, inventoryID int64) (iter.Seq2[dto.MovementResponse, error], error) {
	rec, err := uc.invRepo.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	pageSize := uc.pageSize
	return func(yield func(dto.MovementResponse, error) bool) {
		filter := repository.MovementFilter{InventoryID: &inventoryID, Limit: pageSize}
		for {
			page, err := uc.movRepo.List(ctx, filter)
			if err != nil {
				yield(dto.MovementResponse{}, err)
				return
			}
			for _, v := range page {
				if !yield(toMovementResponse(v), nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
			filter.Offset += len(page)
		}
	}, nil
}

// Summarize agrega cantidad y valor de ENTRADAS y SALIDAS de un registro de inventario.
func (uc *MovementUseCase) Summarize(ctx context.Context, inventoryID int64) (*dto.MovementSummaryResponse, error) {
	view, err := uc.invRepo.GetView(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	summary, err := uc.movRepo.Summarize(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	summary.InventoryID = inventoryID
	summary.ProductName = view.ProductName
	summary.CurrentStock = view.Quantity
	out := toSummaryResponse(*summary)
	return &out, nil
}
