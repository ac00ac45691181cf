package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/application/validation"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
	"github.com/jhoicas/licorera-api/pkg/metrics"
)

// Config políticas del orquestador de ventas.
type Config struct {
	// RestoreStockOnDelete devuelve al inventario las unidades de una venta eliminada.
	// En false se conserva el comportamiento histórico: eliminar no toca el stock.
	RestoreStockOnDelete bool
}

// SaleUseCase orquesta la venta como una sola transacción: validación, precios,
// descuento de stock por línea (SALIDA), snapshot del detalle y cabecera.
type SaleUseCase struct {
	txRunner repository.TxRunner
	ledger   *inventory.Ledger
	saleRepo repository.SaleRepository
	catalog  repository.CatalogRepository
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner repository.TxRunner,
	ledger *inventory.Ledger,
	saleRepo repository.SaleRepository,
	catalog repository.CatalogRepository,
	cfg Config,
	log zerolog.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
		catalog:  catalog,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Create registra una venta. fallbackUserID se usa como vendedor cuando el body no trae id_usuario
// (header X-User-Id o usuario del token). Cualquier fallo revierte todo: stock, movimientos, detalle y venta.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest, fallbackUserID *int64) (*dto.SaleResponse, error) {
	start := time.Now()
	out, err := uc.create(ctx, in, fallbackUserID)
	if err != nil {
		metrics.SalesFailedTotal.WithLabelValues(failureReason(err)).Inc()
		uc.log.Warn().Err(err).Msg("venta abortada")
		return nil, err
	}
	metrics.SaleTxLatency.Observe(time.Since(start).Seconds())
	metrics.SalesCreatedTotal.Inc()
	uc.log.Info().
		Int64("sale_id", out.ID).
		Int("items", len(out.Items)).
		Str("total", out.Total.String()).
		Msg("venta registrada")
	return out, nil
}

func (uc *SaleUseCase) create(ctx context.Context, in dto.CreateSaleRequest, fallbackUserID *int64) (*dto.SaleResponse, error) {
	// 1. Validar
	if in.UserID == nil {
		in.UserID = fallbackUserID
	}
	verr := collectValidation(validation.Struct("Faltan campos requeridos", in))
	if verr == nil {
		verr = domain.NewValidationError("Faltan campos requeridos")
	}
	if in.UserID == nil {
		verr.Add("id_usuario")
	}
	checkItems(verr, in.Items)
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		verr.Add("fecha")
	}
	if in.Total != nil && (in.Total.IsNegative() || !entity.FitsAmountScale(*in.Total)) {
		verr.Add("total")
	}
	if verr.HasErrors() {
		return nil, verr
	}
	saleDate := uc.today()
	if date != nil {
		saleDate = *date
	}

	// 2. Resolver referencias
	if err := uc.resolveCustomer(ctx, *in.CustomerID); err != nil {
		return nil, err
	}
	if err := uc.resolveUser(ctx, *in.UserID); err != nil {
		return nil, err
	}

	var saleID int64
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// 3. Precios y snapshot
		items, err := priceItems(ctx, repos.Catalog, in.Items)
		if err != nil {
			return err
		}
		subtotal := items.Subtotal()
		detail := &entity.SaleDetail{Subtotal: subtotal, Tax: entity.ComputeTax(subtotal), Items: items}
		if err := repos.Sales.CreateDetail(ctx, detail); err != nil {
			return err
		}
		sale := &entity.Sale{
			Date:       saleDate,
			CustomerID: *in.CustomerID,
			UserID:     *in.UserID,
			DetailID:   detail.ID,
			Total:      *in.Total,
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		saleID = sale.ID
		// 4. Descontar stock línea a línea; la primera sin stock aborta la transacción
		return uc.reserve(ctx, repos, sale.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, saleID)
}

// Update modifica una venta. Si llegan productos, primero devuelve al inventario las unidades del
// snapshot anterior y luego descuenta las nuevas, todo en la misma transacción.
func (uc *SaleUseCase) Update(ctx context.Context, id int64, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	verr := collectValidation(validation.Struct("Datos inválidos", in))
	if verr == nil {
		verr = domain.NewValidationError("Datos inválidos")
	}
	checkItems(verr, in.Items)
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		verr.Add("fecha")
	}
	if in.Total != nil && (in.Total.IsNegative() || !entity.FitsAmountScale(*in.Total)) {
		verr.Add("total")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if in.CustomerID != nil {
			if err := checkCustomer(ctx, repos.Catalog, *in.CustomerID); err != nil {
				return err
			}
			sale.CustomerID = *in.CustomerID
		}
		if in.UserID != nil {
			if err := checkUser(ctx, repos.Catalog, *in.UserID); err != nil {
				return err
			}
			sale.UserID = *in.UserID
		}
		if date != nil {
			sale.Date = *date
		}
		if in.Total != nil {
			sale.Total = *in.Total
		}

		if len(in.Items) > 0 {
			detail, err := repos.Sales.GetDetail(ctx, sale.DetailID)
			if err != nil {
				return err
			}
			if detail == nil {
				return fmt.Errorf("detalle %d de la venta %d no existe", sale.DetailID, sale.ID)
			}
			items, err := priceItems(ctx, repos.Catalog, in.Items)
			if err != nil {
				return err
			}
			// líneas viejas y nuevas, en un solo orden
			lock := append(detail.Items.ProductIDs(), items.ProductIDs()...)
			if err := uc.ledger.LockProducts(ctx, repos.Inventory, lock); err != nil {
				return err
			}
			if err := uc.restore(ctx, repos, sale.ID, detail.Items); err != nil {
				return err
			}
			if err := uc.reserve(ctx, repos, sale.ID, items); err != nil {
				return err
			}
			detail.Items = items
			detail.Subtotal = items.Subtotal()
			detail.Tax = entity.ComputeTax(detail.Subtotal)
			if err := repos.Sales.UpdateDetail(ctx, detail); err != nil {
				return err
			}
		}
		return repos.Sales.Update(ctx, sale)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.SalesFailedTotal.WithLabelValues(failureReason(err)).Inc()
		}
		return nil, err
	}
	metrics.SalesUpdatedTotal.Inc()
	return uc.Get(ctx, id)
}

// Delete elimina la venta y su detalle. Solo devuelve el stock si RestoreStockOnDelete está activo.
func (uc *SaleUseCase) Delete(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if uc.cfg.RestoreStockOnDelete {
			detail, err := repos.Sales.GetDetail(ctx, sale.DetailID)
			if err != nil {
				return err
			}
			if detail != nil {
				if err := uc.restore(ctx, repos, sale.ID, detail.Items); err != nil {
					return err
				}
			}
		} else {
			uc.log.Warn().
				Int64("sale_id", sale.ID).
				Msg("venta eliminada sin devolver stock (SALES_RESTORE_STOCK_ON_DELETE=false)")
		}
		return repos.Sales.Delete(ctx, sale)
	})
	if err != nil {
		return err
	}
	metrics.SalesDeletedTotal.Inc()
	return nil
}

// Get devuelve la venta compuesta o domain.ErrNotFound.
func (uc *SaleUseCase) Get(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	view, err := uc.saleRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	out := toSaleResponse(*view)
	return &out, nil
}

// List devuelve las ventas de la más reciente a la más antigua.
func (uc *SaleUseCase) List(ctx context.Context, q dto.SaleListQuery) ([]dto.SaleResponse, error) {
	if err := validation.Struct("Paginación inválida", q.PageRequest); err != nil {
		return nil, err
	}
	filter := repository.SaleFilter{Limit: q.Limit, Offset: q.Offset}
	if q.CustomerID > 0 {
		filter.CustomerID = &q.CustomerID
	}
	if q.UserID > 0 {
		filter.UserID = &q.UserID
	}
	from, err := dto.ParseDate(q.From)
	if err != nil {
		return nil, domain.NewValidationError("Fecha inválida", "desde")
	}
	to, err := dto.ParseDate(q.To)
	if err != nil {
		return nil, domain.NewValidationError("Fecha inválida", "hasta")
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	filter.From, filter.To = from, to

	views, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toSaleResponse(v))
	}
	return out, nil
}

// reserve descuenta cada línea en orden: asegura el registro de inventario y asienta una SALIDA ligada a la venta.
func (uc *SaleUseCase) reserve(ctx context.Context, repos repository.TxRepos, saleID int64, items entity.SaleItems) error {
	if err := uc.ledger.LockProducts(ctx, repos.Inventory, items.ProductIDs()); err != nil {
		return err
	}
	for _, it := range items {
		rec, product, err := uc.ledger.EnsureRecord(ctx, repos, it.ProductID)
		if err != nil {
			return err
		}
		mov := &entity.InventoryMovement{
			Type:      entity.MovementTypeSalida,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			SaleID:    &saleID,
		}
		if err := uc.ledger.Post(ctx, repos, rec, product, mov); err != nil {
			return err
		}
	}
	return nil
}

// restore devuelve al inventario las unidades de un snapshot con ENTRADAS compensatorias.
// Los productos sin registro de inventario se omiten: no hay stock que devolver.
func (uc *SaleUseCase) restore(ctx context.Context, repos repository.TxRepos, saleID int64, items entity.SaleItems) error {
	if err := uc.ledger.LockProducts(ctx, repos.Inventory, items.ProductIDs()); err != nil {
		return err
	}
	for _, it := range items {
		rec, err := repos.Inventory.GetByProductForUpdate(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if rec == nil {
			uc.log.Warn().
				Int64("sale_id", saleID).
				Int64("product_id", it.ProductID).
				Msg("producto sin inventario, no se devuelve stock")
			continue
		}
		mov := &entity.InventoryMovement{
			Type:      entity.MovementTypeEntrada,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			SaleID:    &saleID,
		}
		if err := uc.ledger.Post(ctx, repos, rec, nil, mov); err != nil {
			return err
		}
	}
	return nil
}

func (uc *SaleUseCase) today() time.Time {
	y, m, d := uc.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func (uc *SaleUseCase) resolveCustomer(ctx context.Context, id int64) error {
	return checkCustomer(ctx, uc.catalog, id)
}

func (uc *SaleUseCase) resolveUser(ctx context.Context, id int64) error {
	return checkUser(ctx, uc.catalog, id)
}

func checkCustomer(ctx context.Context, catalog repository.CatalogRepository, id int64) error {
	c, err := catalog.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return &domain.ReferenceError{Entity: "cliente", ID: id}
	}
	return nil
}

func checkUser(ctx context.Context, catalog repository.CatalogRepository, id int64) error {
	u, err := catalog.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return &domain.ReferenceError{Entity: "usuario", ID: id}
	}
	return nil
}

// priceItems verifica que cada producto exista y arma el snapshot con nombre y subtotal por línea.
func priceItems(ctx context.Context, catalog repository.CatalogRepository, in []dto.SaleItemRequest) (entity.SaleItems, error) {
	items := make(entity.SaleItems, 0, len(in))
	for _, it := range in {
		product, err := catalog.GetProduct(ctx, *it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, &domain.ReferenceError{Entity: "producto", ID: *it.ProductID}
		}
		items = append(items, entity.SaleItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  *it.Quantity,
			UnitPrice: *it.UnitPrice,
			Subtotal:  it.Quantity.Mul(*it.UnitPrice),
		})
	}
	return items, nil
}

// checkItems marca cantidades no positivas, precios negativos y valores con más de
// entity.AmountScale decimales.
func checkItems(verr *domain.ValidationError, items []dto.SaleItemRequest) {
	for i, it := range items {
		if it.Quantity != nil && (!it.Quantity.IsPositive() || !entity.FitsAmountScale(*it.Quantity)) {
			verr.Add(fmt.Sprintf("productos[%d].cantidad", i))
		}
		if it.UnitPrice != nil && (it.UnitPrice.LessThan(decimal.Zero) || !entity.FitsAmountScale(*it.UnitPrice)) {
			verr.Add(fmt.Sprintf("productos[%d].precio_unitario", i))
		}
	}
}

func collectValidation(err error) *domain.ValidationError {
	if err == nil {
		return nil
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return domain.NewValidationError(err.Error())
}
