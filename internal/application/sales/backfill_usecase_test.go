package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/application/sales"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/infrastructure/memory"
)

func newBackfill(s *memory.Store) *sales.BackfillUseCase {
	return sales.NewBackfillUseCase(memory.NewTxRunner(s), inventory.NewLedger(), zerolog.Nop())
}

func day(v string) time.Time {
	t, err := time.ParseInLocation(dto.DateLayout, v, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func line(productID, qty, price int64) entity.SaleItem {
	return entity.SaleItem{
		ProductID: productID,
		Quantity:  d(qty),
		UnitPrice: d(price),
		Subtotal:  d(qty * price),
	}
}

func historicalSale(date string, items ...entity.SaleItem) (entity.Sale, entity.SaleItems) {
	return entity.Sale{Date: day(date), CustomerID: 1, UserID: 1, Total: entity.SaleItems(items).Subtotal()}, items
}

func TestBackfill_Idempotente(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	s.SeedStock(2, 1, d(10))
	s.SeedSale(historicalSale("2026-01-10", line(1, 2, 1000)))
	s.SeedSale(historicalSale("2026-01-11", line(1, 1, 1000), line(2, 3, 5000)))
	uc := newBackfill(s)
	ctx := context.Background()

	first, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.SalesProcessed)
	assert.Equal(t, 3, first.MovementsCreated)
	assert.Empty(t, first.Errors)
	assert.True(t, s.StockOf(1).Equal(d(7)))
	assert.True(t, s.StockOf(2).Equal(d(7)))

	movements := len(s.Movements())
	second, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.SalesProcessed)
	assert.Zero(t, second.MovementsCreated)
	assert.Len(t, s.Movements(), movements)
	assert.True(t, s.StockOf(1).Equal(d(7)))
	assert.True(t, s.StockOf(2).Equal(d(7)))
}

func TestBackfill_SalidaFechadaEnLaVenta(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	saleID := s.SeedSale(historicalSale("2026-01-10", line(1, 2, 1000)))

	_, err := newBackfill(s).GenerateRetroactiveMovements(context.Background())
	require.NoError(t, err)

	salidas := salidasOfSale(s, saleID)
	require.Len(t, salidas, 1)
	assert.True(t, salidas[0].Date.Equal(day("2026-01-10")))
	assert.True(t, salidas[0].Total.Equal(d(2000)))
}

func TestBackfill_ReportaLineasOmitidas(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	s.SeedStock(2, 1, d(1))
	s.SeedSale(historicalSale("2026-01-10", line(2, 5, 5000)))
	s.SeedSale(historicalSale("2026-01-11", line(99, 1, 100)))
	s.SeedSale(historicalSale("2026-01-12", line(1, 4, 1000)))
	uc := newBackfill(s)
	ctx := context.Background()

	res, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.SalesProcessed)
	assert.Equal(t, 1, res.MovementsCreated, "las líneas válidas se procesan aunque otras fallen")
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "venta 1")
	assert.Contains(t, res.Errors[0], "Stock disponible: 1")
	assert.Contains(t, res.Errors[1], "venta 2")
	assert.True(t, s.StockOf(1).Equal(d(6)))
	assert.True(t, s.StockOf(2).Equal(d(1)))

	again, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.MovementsCreated)
	assert.Len(t, again.Errors, 2)
}

func TestBackfill_LineasRepetidas(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	s.SeedSale(historicalSale("2026-01-10", line(1, 1, 1000), line(1, 1, 1000)))
	uc := newBackfill(s)
	ctx := context.Background()

	res, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.MovementsCreated)
	assert.True(t, s.StockOf(1).Equal(d(8)))

	res, err = uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.MovementsCreated)
}

// Las ventas que ya descontaron stock al crearse quedan cubiertas por sus propias SALIDAS.
func TestBackfill_OmiteVentasConSalidas(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	ctx := context.Background()

	_, err := newSaleUseCase(s, sales.Config{}).Create(ctx, saleRequest(2380, item(1, 2, 1000)), nil)
	require.NoError(t, err)

	res, err := newBackfill(s).GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SalesProcessed)
	assert.Zero(t, res.MovementsCreated)
	assert.True(t, s.StockOf(1).Equal(d(8)))
}

// Una SALIDA manual sin venta asociada, del mismo día y por la misma línea, cuenta como cubierta.
func TestBackfill_SalidaManualDelMismoDia(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, d(10))
	today := time.Now().Format(dto.DateLayout)
	s.SeedSale(historicalSale(today, line(1, 2, 1000)))
	ctx := context.Background()

	repos := s.Repos()
	movements := inventory.NewMovementUseCase(memory.NewTxRunner(s), inventory.NewLedger(), repos.Inventory, repos.Movements, repos.Catalog, zerolog.Nop())
	_, err := movements.Create(ctx, dto.CreateMovementRequest{
		InventoryID: id(invID),
		Type:        entity.MovementTypeSalida,
		Quantity:    dp(2),
		UnitPrice:   dp(1000),
	})
	require.NoError(t, err)

	res, err := newBackfill(s).GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.MovementsCreated)
	assert.True(t, s.StockOf(1).Equal(d(8)))
}

// Una misma SALIDA manual cubre una sola línea: la segunda venta idéntica del día se completa.
func TestBackfill_SalidaManualCubreUnaSolaVenta(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, d(10))
	today := time.Now().Format(dto.DateLayout)
	first := s.SeedSale(historicalSale(today, line(1, 2, 1000)))
	second := s.SeedSale(historicalSale(today, line(1, 2, 1000)))
	ctx := context.Background()

	repos := s.Repos()
	movements := inventory.NewMovementUseCase(memory.NewTxRunner(s), inventory.NewLedger(), repos.Inventory, repos.Movements, repos.Catalog, zerolog.Nop())
	_, err := movements.Create(ctx, dto.CreateMovementRequest{
		InventoryID: id(invID),
		Type:        entity.MovementTypeSalida,
		Quantity:    dp(2),
		UnitPrice:   dp(1000),
	})
	require.NoError(t, err)

	uc := newBackfill(s)
	res, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.MovementsCreated)
	assert.True(t, s.StockOf(1).Equal(d(6)))
	assert.Empty(t, salidasOfSale(s, first))
	assert.Len(t, salidasOfSale(s, second), 1)

	res, err = uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.MovementsCreated)
	assert.True(t, s.StockOf(1).Equal(d(6)))
}

// Un detalle antiguo con tres decimales se asienta redondeado y no se vuelve a descontar.
func TestBackfill_DetalleConMasDecimales(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	it := line(1, 1, 1000)
	it.Quantity = decimal.RequireFromString("1.555")
	it.Subtotal = it.Quantity.Mul(it.UnitPrice)
	saleID := s.SeedSale(historicalSale("2026-01-10", it))
	uc := newBackfill(s)
	ctx := context.Background()

	res, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.MovementsCreated)
	salidas := salidasOfSale(s, saleID)
	require.Len(t, salidas, 1)
	assert.True(t, salidas[0].Quantity.Equal(decimal.RequireFromString("1.56")))

	res, err = uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.MovementsCreated)
	assert.True(t, s.StockOf(1).Equal(decimal.RequireFromString("8.44")))
}
