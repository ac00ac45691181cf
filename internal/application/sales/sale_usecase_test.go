package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/application/sales"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/infrastructure/memory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func id(v int64) *int64 { return &v }

// newStore catálogo mínimo: cliente 1, usuario 1, proveedor 1, productos 1 (Aguardiente) y 2 (Ron).
func newStore() *memory.Store {
	s := memory.NewStore()
	s.SeedCustomer(entity.Customer{ID: 1, Name: "Consumidor final"})
	s.SeedUser(entity.User{ID: 1, Name: "Caja 1", Email: "caja@licorera.local", RoleName: entity.RoleCajero})
	s.SeedProvider(entity.Provider{ID: 1, Name: "Distribuidora Andina"})
	s.SeedProduct(entity.Product{ID: 1, Name: "Aguardiente", PurchasePrice: d(700), SalePrice: d(1000)})
	s.SeedProduct(entity.Product{ID: 2, Name: "Ron", PurchasePrice: d(3500), SalePrice: d(5000)})
	return s
}

func newSaleUseCase(s *memory.Store, cfg sales.Config) *sales.SaleUseCase {
	repos := s.Repos()
	return sales.NewSaleUseCase(memory.NewTxRunner(s), inventory.NewLedger(), repos.Sales, repos.Catalog, cfg, zerolog.Nop())
}

func item(productID, qty, price int64) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: id(productID), Quantity: dp(qty), UnitPrice: dp(price)}
}

func saleRequest(total int64, items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID: id(1),
		UserID:     id(1),
		Total:      dp(total),
		Items:      items,
	}
}

func salidasOfSale(s *memory.Store, saleID int64) []entity.InventoryMovement {
	var out []entity.InventoryMovement
	for _, m := range s.Movements() {
		if m.Type == entity.MovementTypeSalida && m.SaleID != nil && *m.SaleID == saleID {
			out = append(out, m)
		}
	}
	return out
}

func TestCreate_DescuentaStockYCalculaIVA(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	s.SeedStock(2, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})

	out, err := uc.Create(context.Background(), saleRequest(8330, item(1, 2, 1000), item(2, 1, 5000)), nil)
	require.NoError(t, err)

	assert.True(t, out.Subtotal.Equal(d(7000)), "subtotal %s", out.Subtotal)
	assert.True(t, out.Tax.Equal(d(1330)), "iva %s", out.Tax)
	assert.True(t, out.Total.Equal(d(8330)))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Aguardiente", out.Items[0].Name)
	assert.True(t, out.Items[0].Subtotal.Equal(d(2000)))
	assert.Equal(t, "Consumidor final", out.CustomerName)
	assert.Equal(t, "Caja 1", out.UserName)

	assert.True(t, s.StockOf(1).Equal(d(8)))
	assert.True(t, s.StockOf(2).Equal(d(9)))

	salidas := salidasOfSale(s, out.ID)
	require.Len(t, salidas, 2)
	assert.True(t, salidas[0].Quantity.Equal(d(2)))
	assert.True(t, salidas[0].Total.Equal(d(2000)))
	assert.True(t, salidas[1].UnitPrice.Equal(d(5000)))
	assert.Nil(t, salidas[0].ProviderID)
}

func TestCreate_StockInsuficienteRevierteTodo(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(5))
	s.SeedStock(2, 1, decimal.Zero)
	before := len(s.Movements())
	uc := newSaleUseCase(s, sales.Config{})

	_, err := uc.Create(context.Background(), saleRequest(8330, item(1, 3, 1000), item(2, 1, 5000)), nil)
	require.Error(t, err)

	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, int64(2), serr.ProductID)
	assert.Equal(t, "Ron", serr.ProductName)
	assert.True(t, serr.Available.IsZero())
	assert.True(t, serr.Requested.Equal(d(1)))

	assert.True(t, s.StockOf(1).Equal(d(5)), "la primera línea no debe quedar descontada")
	assert.Len(t, s.Movements(), before)
	nSales, nDetails := s.SalesCount()
	assert.Zero(t, nSales)
	assert.Zero(t, nDetails)
}

func TestCreate_ProductoSinInventario(t *testing.T) {
	s := newStore()
	uc := newSaleUseCase(s, sales.Config{})

	_, err := uc.Create(context.Background(), saleRequest(1190, item(1, 1, 1000)), nil)
	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.True(t, serr.Available.IsZero())
	nSales, _ := s.SalesCount()
	assert.Zero(t, nSales)
}

func TestCreate_CamposFaltantes(t *testing.T) {
	s := newStore()
	uc := newSaleUseCase(s, sales.Config{})

	_, err := uc.Create(context.Background(), dto.CreateSaleRequest{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, f := range []string{"id_cliente", "id_usuario", "total", "productos"} {
		assert.True(t, verr.Missing[f], "falta %s", f)
	}
}

func TestCreate_LineasInvalidas(t *testing.T) {
	s := newStore()
	uc := newSaleUseCase(s, sales.Config{})

	req := saleRequest(0, item(1, 0, 1000), dto.SaleItemRequest{ProductID: id(2), Quantity: dp(1)}, item(1, 1, -5))
	req.Date = "17/10/2026"
	_, err := uc.Create(context.Background(), req, nil)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Missing["productos[0].cantidad"])
	assert.True(t, verr.Missing["productos[1].precio_unitario"])
	assert.True(t, verr.Missing["productos[2].precio_unitario"])
	assert.True(t, verr.Missing["fecha"])
}

func TestCreate_RechazaMasDeDosDecimales(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})

	qty := decimal.RequireFromString("1.555")
	price := decimal.RequireFromString("1000.125")
	total := decimal.RequireFromString("1850.001")
	req := saleRequest(0, dto.SaleItemRequest{ProductID: id(1), Quantity: &qty, UnitPrice: dp(1000)}, dto.SaleItemRequest{ProductID: id(1), Quantity: dp(1), UnitPrice: &price})
	req.Total = &total
	_, err := uc.Create(context.Background(), req, nil)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Missing["productos[0].cantidad"])
	assert.True(t, verr.Missing["productos[1].precio_unitario"])
	assert.True(t, verr.Missing["total"])
	assert.True(t, s.StockOf(1).Equal(d(10)))
	salesCount, _ := s.SalesCount()
	assert.Zero(t, salesCount)
}

// Con 2 decimales exactos la venta pasa y el libro guarda el mismo valor que el detalle.
func TestCreate_CantidadConDecimales(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})

	qty := decimal.RequireFromString("1.50")
	out, err := uc.Create(context.Background(), saleRequest(1785, dto.SaleItemRequest{ProductID: id(1), Quantity: &qty, UnitPrice: dp(1000)}), nil)
	require.NoError(t, err)

	salidas := salidasOfSale(s, out.ID)
	require.Len(t, salidas, 1)
	assert.True(t, salidas[0].Quantity.Equal(qty))
	assert.True(t, s.StockOf(1).Equal(decimal.RequireFromString("8.5")))
}

func TestCreate_ReferenciasInexistentes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateSaleRequest)
		entity string
	}{
		{"cliente", func(r *dto.CreateSaleRequest) { r.CustomerID = id(99) }, "cliente"},
		{"usuario", func(r *dto.CreateSaleRequest) { r.UserID = id(99) }, "usuario"},
		{"producto", func(r *dto.CreateSaleRequest) { r.Items[0].ProductID = id(99) }, "producto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			s.SeedStock(1, 1, d(10))
			uc := newSaleUseCase(s, sales.Config{})

			req := saleRequest(1190, item(1, 1, 1000))
			tt.mutate(&req)
			_, err := uc.Create(context.Background(), req, nil)

			var rerr *domain.ReferenceError
			require.True(t, errors.As(err, &rerr), "se esperaba ReferenceError, obtuvo %v", err)
			assert.Equal(t, tt.entity, rerr.Entity)
			assert.Equal(t, int64(99), rerr.ID)
			assert.True(t, s.StockOf(1).Equal(d(10)))
			nSales, nDetails := s.SalesCount()
			assert.Zero(t, nSales)
			assert.Zero(t, nDetails)
		})
	}
}

func TestCreate_UsuarioDeRespaldo(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})

	req := saleRequest(1190, item(1, 1, 1000))
	req.UserID = nil
	out, err := uc.Create(context.Background(), req, id(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.UserID)

	// el id_usuario del body tiene prioridad
	s.SeedUser(entity.User{ID: 2, Name: "Admin", RoleName: entity.RoleAdministrador})
	req = saleRequest(1190, item(1, 1, 1000))
	req.UserID = id(2)
	out, err = uc.Create(context.Background(), req, id(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.UserID)
}

func TestCreate_FechaExplicita(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})

	req := saleRequest(1190, item(1, 1, 1000))
	req.Date = "2026-01-15"
	out, err := uc.Create(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", out.Date)
}

func TestUpdate_AjustaStockPorDiferencia(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})
	ctx := context.Background()

	sale, err := uc.Create(ctx, saleRequest(2380, item(1, 2, 1000)), nil)
	require.NoError(t, err)
	require.True(t, s.StockOf(1).Equal(d(8)))

	out, err := uc.Update(ctx, sale.ID, dto.UpdateSaleRequest{Items: []dto.SaleItemRequest{item(1, 5, 1000)}, Total: dp(5950)})
	require.NoError(t, err)
	assert.True(t, s.StockOf(1).Equal(d(5)), "el neto del cambio debe ser -3")
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Quantity.Equal(d(5)))
	assert.True(t, out.Subtotal.Equal(d(5000)))
	assert.True(t, out.Tax.Equal(d(950)))
	assert.True(t, out.Total.Equal(d(5950)))
}

func TestUpdate_SinStockNoCambiaNada(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})
	ctx := context.Background()

	sale, err := uc.Create(ctx, saleRequest(2380, item(1, 2, 1000)), nil)
	require.NoError(t, err)
	movements := len(s.Movements())

	_, err = uc.Update(ctx, sale.ID, dto.UpdateSaleRequest{Items: []dto.SaleItemRequest{item(1, 11, 1000)}})
	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.True(t, serr.Available.Equal(d(10)), "disponible = stock + unidades devueltas de la venta")

	assert.True(t, s.StockOf(1).Equal(d(8)))
	assert.Len(t, s.Movements(), movements)
	got, err := uc.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Quantity.Equal(d(2)))
}

func TestUpdate_SoloCabeceraNoTocaStock(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	s.SeedCustomer(entity.Customer{ID: 2, Name: "Bar La 70"})
	uc := newSaleUseCase(s, sales.Config{})
	ctx := context.Background()

	sale, err := uc.Create(ctx, saleRequest(2380, item(1, 2, 1000)), nil)
	require.NoError(t, err)
	movements := len(s.Movements())

	out, err := uc.Update(ctx, sale.ID, dto.UpdateSaleRequest{CustomerID: id(2), Date: "2026-02-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.CustomerID)
	assert.Equal(t, "Bar La 70", out.CustomerName)
	assert.Equal(t, "2026-02-01", out.Date)
	assert.True(t, s.StockOf(1).Equal(d(8)))
	assert.Len(t, s.Movements(), movements)
}

func TestUpdate_NoExiste(t *testing.T) {
	uc := newSaleUseCase(newStore(), sales.Config{})
	_, err := uc.Update(context.Background(), 42, dto.UpdateSaleRequest{Total: dp(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_PorDefectoNoDevuelveStock(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{})
	ctx := context.Background()

	sale, err := uc.Create(ctx, saleRequest(3570, item(1, 3, 1000)), nil)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, sale.ID))
	assert.True(t, s.StockOf(1).Equal(d(7)))
	nSales, nDetails := s.SalesCount()
	assert.Zero(t, nSales)
	assert.Zero(t, nDetails)

	_, err = uc.Get(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_DevuelveStockConfigurado(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	uc := newSaleUseCase(s, sales.Config{RestoreStockOnDelete: true})
	ctx := context.Background()

	sale, err := uc.Create(ctx, saleRequest(3570, item(1, 3, 1000)), nil)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, sale.ID))
	assert.True(t, s.StockOf(1).Equal(d(10)))

	var compensating int
	for _, m := range s.Movements() {
		if m.Type == entity.MovementTypeEntrada && m.SaleID != nil && *m.SaleID == sale.ID {
			compensating++
			assert.True(t, m.Quantity.Equal(d(3)))
		}
	}
	assert.Equal(t, 1, compensating)
}

func TestDelete_NoExiste(t *testing.T) {
	uc := newSaleUseCase(newStore(), sales.Config{})
	assert.ErrorIs(t, uc.Delete(context.Background(), 7), domain.ErrNotFound)
}

func TestList_FiltraYOrdena(t *testing.T) {
	s := newStore()
	s.SeedStock(1, 1, d(10))
	s.SeedCustomer(entity.Customer{ID: 2, Name: "Bar La 70"})
	uc := newSaleUseCase(s, sales.Config{})
	ctx := context.Background()

	for _, r := range []struct {
		date     string
		customer int64
	}{{"2026-03-01", 1}, {"2026-03-05", 2}, {"2026-03-03", 1}} {
		req := saleRequest(1190, item(1, 1, 1000))
		req.Date = r.date
		req.CustomerID = id(r.customer)
		_, err := uc.Create(ctx, req, nil)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, dto.SaleListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-05", all[0].Date)
	assert.Equal(t, "2026-03-01", all[2].Date)

	byCustomer, err := uc.List(ctx, dto.SaleListQuery{CustomerID: 1})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	upTo, err := uc.List(ctx, dto.SaleListQuery{From: "2026-03-02", To: "2026-03-03"})
	require.NoError(t, err)
	require.Len(t, upTo, 1, "hasta incluye el día indicado")
	assert.Equal(t, "2026-03-03", upTo[0].Date)

	_, err = uc.List(ctx, dto.SaleListQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
