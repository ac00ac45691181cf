//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/application/sales"
	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
	"github.com/jhoicas/licorera-api/internal/infrastructure/postgres"
	"github.com/jhoicas/licorera-api/pkg/config"
)

// Correr con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
// La base se vacía en cada test.

type fixture struct {
	pool       *pgxpool.Pool
	repos      repository.TxRepos
	customerID int64
	userID     int64
	providerID int64
	productID  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 4, MinConns: 0})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE movimiento_inventario, venta, detalle_venta, inventario,
		producto, proveedor, cliente, usuario, tipo_licor RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	f := &fixture{pool: pool, repos: postgres.Repos(pool)}
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO cliente (nombre) VALUES ('Consumidor final') RETURNING id_cliente`).Scan(&f.customerID))
	require.NoError(t, pool.QueryRow(ctx, `
		INSERT INTO usuario (nombre, correo, contrasena, id_rol)
		SELECT 'Caja 1', 'caja@licorera.local', 'x', id_rol FROM rol WHERE nombre = 'cajero'
		RETURNING id_usuario`).Scan(&f.userID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO proveedor (nombre) VALUES ('Distribuidora Central') RETURNING id_proveedor`).Scan(&f.providerID))
	require.NoError(t, pool.QueryRow(ctx, `
		INSERT INTO producto (nombre, precio_compra, precio_venta)
		VALUES ('Aguardiente', 700, 1000) RETURNING id_producto`).Scan(&f.productID))
	return f
}

func (f *fixture) stock(t *testing.T, qty int64) int64 {
	t.Helper()
	rec := &entity.InventoryRecord{ProductID: f.productID, Quantity: decimal.NewFromInt(qty)}
	require.NoError(t, f.repos.Inventory.Create(context.Background(), rec))
	return rec.ID
}

func (f *fixture) historicalSale(t *testing.T, date time.Time, items entity.SaleItems) int64 {
	t.Helper()
	ctx := context.Background()
	subtotal := items.Subtotal()
	detail := &entity.SaleDetail{Subtotal: subtotal, Tax: entity.ComputeTax(subtotal), Items: items}
	require.NoError(t, f.repos.Sales.CreateDetail(ctx, detail))
	sale := &entity.Sale{Date: date, CustomerID: f.customerID, UserID: f.userID, DetailID: detail.ID, Total: subtotal}
	require.NoError(t, f.repos.Sales.Create(ctx, sale))
	return sale.ID
}

func salida(invID int64, qty, price string, saleID *int64, at time.Time) *entity.InventoryMovement {
	q, p := decimal.RequireFromString(qty), decimal.RequireFromString(price)
	return &entity.InventoryMovement{
		InventoryID: invID,
		Type:        entity.MovementTypeSalida,
		Quantity:    q,
		UnitPrice:   p,
		Total:       q.Mul(p),
		SaleID:      saleID,
		Date:        at,
	}
}

func TestIntegration_FindSaleOutflows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	invID := f.stock(t, 0)
	saleDay := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	saleID := int64(7)
	other := int64(8)

	legacy := salida(invID, "2", "1000", nil, saleDay.Add(12*time.Hour))
	linked := salida(invID, "2", "1000", &saleID, saleDay)
	for _, m := range []*entity.InventoryMovement{
		legacy,
		linked,
		salida(invID, "2", "1000", nil, saleDay.AddDate(0, 0, 2).Add(12*time.Hour)), // otro día
		salida(invID, "2", "1500", nil, saleDay.Add(12*time.Hour)),                  // otro precio
		salida(invID, "2", "1000", &other, saleDay),                                // otra venta
	} {
		require.NoError(t, f.repos.Movements.Create(ctx, m))
	}

	ids, err := f.repos.Movements.FindSaleOutflows(ctx, repository.SaleOutflowQuery{
		SaleID:    saleID,
		ProductID: f.productID,
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(1000),
		Date:      saleDay,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{linked.ID, legacy.ID}, ids)
}

func TestIntegration_SnapshotJSONB(t *testing.T) {
	f := newFixture(t)
	items := entity.SaleItems{
		{ProductID: f.productID, Name: "Aguardiente Antioqueño", Quantity: decimal.RequireFromString("1.5"),
			UnitPrice: decimal.RequireFromString("1000.25"), Subtotal: decimal.RequireFromString("1500.375")},
		{ProductID: f.productID, Name: "Aguardiente Antioqueño", Quantity: decimal.NewFromInt(2),
			UnitPrice: decimal.NewFromInt(1000), Subtotal: decimal.NewFromInt(2000)},
	}
	saleID := f.historicalSale(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), items)

	view, err := f.repos.Sales.GetView(context.Background(), saleID)
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Len(t, view.Detail.Items, 2)
	for i, it := range view.Detail.Items {
		assert.Equal(t, items[i].Name, it.Name)
		assert.True(t, items[i].Quantity.Equal(it.Quantity), "cantidad %d: %s", i, it.Quantity)
		assert.True(t, items[i].UnitPrice.Equal(it.UnitPrice), "precio %d: %s", i, it.UnitPrice)
	}
	assert.Equal(t, "2026-01-10", view.Date.Format("2006-01-02"))
}

func TestIntegration_ListaVentasPorFecha(t *testing.T) {
	f := newFixture(t)
	line := entity.SaleItems{{ProductID: f.productID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000), Subtotal: decimal.NewFromInt(1000)}}
	first := f.historicalSale(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), line)
	f.historicalSale(t, time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), line)

	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 1)
	list, err := f.repos.Sales.List(context.Background(), repository.SaleFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)
}

func TestIntegration_CheckDeCantidad(t *testing.T) {
	f := newFixture(t)
	invID := f.stock(t, 1)

	err := f.repos.Inventory.UpdateQuantity(context.Background(), invID, decimal.NewFromInt(-1), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

// Un detalle con tres decimales se asienta redondeado y una segunda corrida no lo repite.
func TestIntegration_BackfillIdempotenteConDecimales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, 10)
	qty := decimal.RequireFromString("1.555")
	f.historicalSale(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), entity.SaleItems{
		{ProductID: f.productID, Name: "Aguardiente", Quantity: qty, UnitPrice: decimal.NewFromInt(1000), Subtotal: qty.Mul(decimal.NewFromInt(1000))},
	})
	uc := sales.NewBackfillUseCase(postgres.NewTxRunner(f.pool), inventory.NewLedger(), zerolog.Nop())

	res, err := uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.MovementsCreated)

	res, err = uc.GenerateRetroactiveMovements(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.MovementsCreated)

	rec, err := f.repos.Inventory.GetByProductForUpdate(ctx, f.productID)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("8.44")), "stock %s", rec.Quantity)
}
