package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
	"github.com/jhoicas/licorera-api/pkg/metrics"
)

// BackfillUseCase genera las SALIDAS faltantes de ventas registradas antes de que
// la venta descontara inventario. Es idempotente: las líneas ya cubiertas se omiten.
type BackfillUseCase struct {
	txRunner repository.TxRunner
	ledger   *inventory.Ledger
	log      zerolog.Logger
}

// NewBackfillUseCase construye el caso de uso.
func NewBackfillUseCase(txRunner repository.TxRunner, ledger *inventory.Ledger, log zerolog.Logger) *BackfillUseCase {
	return &BackfillUseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// GenerateRetroactiveMovements recorre las ventas por fecha y crea, fechada en la fecha de la venta,
// cada SALIDA que falte. Una SALIDA existente cubre como máximo una línea de todo el lote, así dos
// ventas iguales del mismo día no comparten una salida manual. Las líneas sin stock suficiente o con
// producto inexistente se reportan en Errors y no abortan el lote.
func (uc *BackfillUseCase) GenerateRetroactiveMovements(ctx context.Context) (*dto.BackfillResponse, error) {
	var res dto.BackfillResponse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		res = dto.BackfillResponse{}
		if err := repos.Sales.LockBackfill(ctx); err != nil {
			return err
		}
		sales, err := repos.Sales.ListChronological(ctx)
		if err != nil {
			return err
		}
		consumed := map[int64]struct{}{}
		for _, s := range sales {
			res.SalesProcessed++
			for _, it := range s.Detail.Items {
				// el snapshot puede traer más decimales que los que guarda el libro
				it.Quantity = it.Quantity.Round(entity.AmountScale)
				it.UnitPrice = it.UnitPrice.Round(entity.AmountScale)
				ids, err := repos.Movements.FindSaleOutflows(ctx, repository.SaleOutflowQuery{
					SaleID:    s.ID,
					ProductID: it.ProductID,
					Quantity:  it.Quantity,
					UnitPrice: it.UnitPrice,
					Date:      s.Date,
				})
				if err != nil {
					return err
				}
				if claimOutflow(ids, consumed) {
					continue
				}
				skipped, err := uc.backfillItem(ctx, repos, s.Sale, it, consumed)
				if err != nil {
					return err
				}
				if skipped != "" {
					res.Errors = append(res.Errors, skipped)
					continue
				}
				res.MovementsCreated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.BackfillMovementsTotal.Add(float64(res.MovementsCreated))
	uc.log.Info().
		Int("sales_processed", res.SalesProcessed).
		Int("movements_created", res.MovementsCreated).
		Int("skipped", len(res.Errors)).
		Msg("movimientos retroactivos generados")
	return &res, nil
}

// claimOutflow marca como usada la primera SALIDA de ids que ninguna línea haya tomado.
func claimOutflow(ids []int64, consumed map[int64]struct{}) bool {
	for _, id := range ids {
		if _, ok := consumed[id]; !ok {
			consumed[id] = struct{}{}
			return true
		}
	}
	return false
}

// backfillItem asienta la SALIDA de una línea. Devuelve un mensaje no vacío cuando la línea se omite.
func (uc *BackfillUseCase) backfillItem(ctx context.Context, repos repository.TxRepos, sale entity.Sale, it entity.SaleItem, consumed map[int64]struct{}) (string, error) {
	rec, product, err := uc.ledger.EnsureRecord(ctx, repos, it.ProductID)
	if err != nil {
		var rerr *domain.ReferenceError
		if errors.As(err, &rerr) {
			return fmt.Sprintf("venta %d: %s", sale.ID, rerr.Error()), nil
		}
		return "", err
	}
	saleID := sale.ID
	mov := &entity.InventoryMovement{
		Type:      entity.MovementTypeSalida,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		SaleID:    &saleID,
		Date:      sale.Date,
	}
	if err := uc.ledger.Post(ctx, repos, rec, product, mov); err != nil {
		var serr *domain.InsufficientStockError
		if errors.As(err, &serr) {
			return fmt.Sprintf("venta %d: %s", sale.ID, serr.Error()), nil
		}
		return "", err
	}
	consumed[mov.ID] = struct{}{}
	return "", nil
}
