package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/infrastructure/memory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func ptr(v int64) *int64 { return &v }

func newStore() *memory.Store {
	s := memory.NewStore()
	s.SeedProvider(entity.Provider{ID: 1, Name: "Distribuidora Andina"})
	s.SeedProduct(entity.Product{ID: 1, Name: "Aguardiente", LiquorTypeName: "Anisado", PurchasePrice: d(700), SalePrice: d(1000)})
	s.SeedProduct(entity.Product{ID: 2, Name: "Ron", PurchasePrice: d(3500), SalePrice: d(5000)})
	return s
}

func newMovementUseCase(s *memory.Store) *MovementUseCase {
	repos := s.Repos()
	return NewMovementUseCase(memory.NewTxRunner(s), NewLedger(), repos.Inventory, repos.Movements, repos.Catalog, zerolog.Nop())
}

func entrada(invID, qty, price int64) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		InventoryID: ptr(invID),
		Type:        entity.MovementTypeEntrada,
		Quantity:    dp(qty),
		UnitPrice:   dp(price),
		ProviderID:  ptr(1),
	}
}

func salida(invID, qty, price int64) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		InventoryID: ptr(invID),
		Type:        entity.MovementTypeSalida,
		Quantity:    dp(qty),
		UnitPrice:   dp(price),
	}
}

func TestMovementCreate_EntradaYSalida(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	ctx := context.Background()

	in, err := uc.Create(ctx, entrada(invID, 12, 700))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeEntrada, in.Type)
	assert.True(t, in.Total.Equal(d(8400)))
	assert.True(t, in.CurrentStock.Equal(d(12)))
	assert.Equal(t, "Aguardiente", in.ProductName)
	assert.Equal(t, "Distribuidora Andina", in.ProviderName)
	assert.Equal(t, "Anisado", in.LiquorTypeName)

	out, err := uc.Create(ctx, salida(invID, 5, 1000))
	require.NoError(t, err)
	assert.True(t, out.CurrentStock.Equal(d(7)))
	assert.Nil(t, out.ProviderID)
	assert.Nil(t, out.SaleID)
	assert.True(t, s.StockOf(1).Equal(d(7)))
}

func TestMovementCreate_SalidaExactaDejaCero(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, d(4))
	uc := newMovementUseCase(s)

	out, err := uc.Create(context.Background(), salida(invID, 4, 1000))
	require.NoError(t, err)
	assert.True(t, out.CurrentStock.IsZero())
}

func TestMovementCreate_StockInsuficiente(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, d(3))
	before := len(s.Movements())
	uc := newMovementUseCase(s)

	_, err := uc.Create(context.Background(), salida(invID, 4, 1000))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, int64(1), serr.ProductID)
	assert.True(t, serr.Available.Equal(d(3)))
	assert.True(t, serr.Requested.Equal(d(4)))
	assert.True(t, serr.Shortfall().Equal(d(1)))

	assert.True(t, s.StockOf(1).Equal(d(3)))
	assert.Len(t, s.Movements(), before)
}

func TestMovementCreate_Validacion(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	threeDecimals := decimal.RequireFromString("1.555")

	tests := []struct {
		name    string
		req     dto.CreateMovementRequest
		missing []string
	}{
		{"vacío", dto.CreateMovementRequest{}, []string{"id_inventario", "tipo_movimiento", "cantidad", "precio_unitario"}},
		{"entrada sin proveedor", dto.CreateMovementRequest{
			InventoryID: ptr(invID), Type: entity.MovementTypeEntrada, Quantity: dp(1), UnitPrice: dp(1),
		}, []string{"id_proveedor"}},
		{"cantidad no positiva", salida(invID, 0, 1000), []string{"cantidad"}},
		{"precio negativo", salida(invID, 1, -1), []string{"precio_unitario"}},
		{"más de dos decimales", dto.CreateMovementRequest{
			InventoryID: ptr(invID), Type: entity.MovementTypeSalida, Quantity: &threeDecimals, UnitPrice: &threeDecimals,
		}, []string{"cantidad", "precio_unitario"}},
		{"tipo desconocido", dto.CreateMovementRequest{
			InventoryID: ptr(invID), Type: "AJUSTE", Quantity: dp(1), UnitPrice: dp(1),
		}, []string{"tipo_movimiento"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.req)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "se esperaba ValidationError, obtuvo %v", err)
			for _, f := range tt.missing {
				assert.True(t, verr.Missing[f], "falta %s en %v", f, verr.Missing)
			}
		})
	}
	assert.Empty(t, s.Movements())
}

func TestMovementCreate_ReferenciasInexistentes(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	ctx := context.Background()

	req := entrada(invID, 1, 700)
	req.ProviderID = ptr(9)
	_, err := uc.Create(ctx, req)
	var rerr *domain.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "proveedor", rerr.Entity)

	_, err = uc.Create(ctx, entrada(404, 1, 700))
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "inventario", rerr.Entity)
	assert.ErrorIs(t, err, domain.ErrReference)
}

func TestMovementList_Filtros(t *testing.T) {
	s := newStore()
	inv1 := s.SeedStock(1, 1, decimal.Zero)
	inv2 := s.SeedStock(2, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	ctx := context.Background()

	for _, req := range []dto.CreateMovementRequest{entrada(inv1, 10, 700), salida(inv1, 2, 1000), entrada(inv2, 5, 3500)} {
		_, err := uc.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(2), all[0].ProductID, "más reciente primero")

	entradas, err := uc.List(ctx, dto.MovementListQuery{Type: entity.MovementTypeEntrada})
	require.NoError(t, err)
	assert.Len(t, entradas, 2)

	ron, err := uc.List(ctx, dto.MovementListQuery{ProductID: 2})
	require.NoError(t, err)
	assert.Len(t, ron, 1)

	paged, err := uc.List(ctx, dto.MovementListQuery{PageRequest: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, all[1].ID, paged[0].ID)

	_, err = uc.List(ctx, dto.MovementListQuery{Type: "AJUSTE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(ctx, dto.MovementListQuery{To: "2026-13-40"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementGet(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	ctx := context.Background()

	created, err := uc.Create(ctx, entrada(invID, 3, 700))
	require.NoError(t, err)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Quantity.Equal(d(3)))

	_, err = uc.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByInventory_RecorrePaginas(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, decimal.Zero)
	other := s.SeedStock(2, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	uc.pageSize = 2
	ctx := context.Background()

	var ids []int64
	for i := int64(1); i <= 5; i++ {
		m, err := uc.Create(ctx, entrada(invID, i, 700))
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	_, err := uc.Create(ctx, entrada(other, 1, 3500))
	require.NoError(t, err)

	seq, err := uc.ListByInventory(ctx, invID)
	require.NoError(t, err)

	var got []int64
	for m, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, invID, m.InventoryID)
		got = append(got, m.ID)
	}
	assert.Equal(t, []int64{ids[4], ids[3], ids[2], ids[1], ids[0]}, got)

	// se puede cortar el recorrido
	var first []int64
	for m := range seq {
		first = append(first, m.ID)
		if len(first) == 3 {
			break
		}
	}
	assert.Len(t, first, 3)

	_, err = uc.ListByInventory(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	s := newStore()
	invID := s.SeedStock(1, 1, decimal.Zero)
	uc := newMovementUseCase(s)
	ctx := context.Background()

	for _, req := range []dto.CreateMovementRequest{entrada(invID, 10, 700), salida(invID, 2, 1000), salida(invID, 3, 1000)} {
		_, err := uc.Create(ctx, req)
		require.NoError(t, err)
	}

	sum, err := uc.Summarize(ctx, invID)
	require.NoError(t, err)
	assert.Equal(t, invID, sum.InventoryID)
	assert.Equal(t, "Aguardiente", sum.ProductName)
	assert.Equal(t, 3, sum.TotalMovements)
	assert.Equal(t, 1, sum.TotalEntradas)
	assert.Equal(t, 2, sum.TotalSalidas)
	assert.True(t, sum.QuantityEntradas.Equal(d(10)))
	assert.True(t, sum.QuantitySalidas.Equal(d(5)))
	assert.True(t, sum.ValueEntradas.Equal(d(7000)))
	assert.True(t, sum.ValueSalidas.Equal(d(5000)))
	assert.True(t, sum.CurrentStock.Equal(d(5)))
	assert.True(t, sum.CurrentStock.Equal(sum.QuantityEntradas.Sub(sum.QuantitySalidas)))

	_, err = uc.Summarize(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
