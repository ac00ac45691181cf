package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movimiento_inventario
			(id_inventario, tipo_movimiento, cantidad, precio_unitario, total, id_proveedor, id_venta, fecha_movimiento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id_movimiento`,
		m.InventoryID, m.Type, m.Quantity, m.UnitPrice, m.Total, m.ProviderID, m.SaleID, m.Date,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

const movementViewSelect = `
	SELECT m.id_movimiento, m.id_inventario, m.tipo_movimiento, m.cantidad, m.precio_unitario, m.total,
	       m.id_proveedor, m.id_venta, m.fecha_movimiento,
	       COALESCE(i.cantidad, 0), COALESCE(i.id_producto, 0),
	       COALESCE(p.nombre, ''), COALESCE(p.precio_compra, 0), COALESCE(p.precio_venta, 0),
	       COALESCE(tl.nombre, ''), COALESCE(pr.nombre, '')
	FROM movimiento_inventario m
	LEFT JOIN inventario i ON m.id_inventario = i.id_inventario
	LEFT JOIN producto p ON i.id_producto = p.id_producto
	LEFT JOIN tipo_licor tl ON p.id_tipo_licor = tl.id_tipo_licor
	LEFT JOIN proveedor pr ON m.id_proveedor = pr.id_proveedor`

func scanMovementView(row pgx.Row) (*entity.MovementView, error) {
	var v entity.MovementView
	err := row.Scan(&v.ID, &v.InventoryID, &v.Type, &v.Quantity, &v.UnitPrice, &v.Total,
		&v.ProviderID, &v.SaleID, &v.Date,
		&v.CurrentStock, &v.ProductID,
		&v.ProductName, &v.PurchasePrice, &v.SalePrice,
		&v.LiquorTypeName, &v.ProviderName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetView obtiene un movimiento enriquecido por ID.
func (r *InventoryMovementRepo) GetView(ctx context.Context, id int64) (*entity.MovementView, error) {
	v, err := scanMovementView(r.q.QueryRow(ctx, movementViewSelect+` WHERE m.id_movimiento = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return v, nil
}

// List lista movimientos según el filtro, el más reciente primero.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]entity.MovementView, error) {
	var b whereBuilder
	if f.InventoryID != nil {
		b.add("m.id_inventario = ?", *f.InventoryID)
	}
	if f.ProductID != nil {
		b.add("i.id_producto = ?", *f.ProductID)
	}
	if f.ProviderID != nil {
		b.add("m.id_proveedor = ?", *f.ProviderID)
	}
	if f.SaleID != nil {
		b.add("m.id_venta = ?", *f.SaleID)
	}
	if f.Type != "" {
		b.add("m.tipo_movimiento = ?", f.Type)
	}
	if f.From != nil {
		b.add("m.fecha_movimiento >= ?", *f.From)
	}
	if f.To != nil {
		b.add("m.fecha_movimiento < ?", *f.To)
	}
	query := movementViewSelect + b.where() + ` ORDER BY m.fecha_movimiento DESC, m.id_movimiento DESC` + b.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]entity.MovementView, 0)
	for rows.Next() {
		v, err := scanMovementView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// CountByInventory cantidad de movimientos que referencian el registro.
func (r *InventoryMovementRepo) CountByInventory(ctx context.Context, inventoryID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM movimiento_inventario WHERE id_inventario = $1`, inventoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// Summarize agrega ENTRADAS y SALIDAS del registro.
func (r *InventoryMovementRepo) Summarize(ctx context.Context, inventoryID int64) (*entity.MovementSummary, error) {
	s := entity.MovementSummary{InventoryID: inventoryID}
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE tipo_movimiento = 'ENTRADA'),
		       COUNT(*) FILTER (WHERE tipo_movimiento = 'SALIDA'),
		       COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'ENTRADA'), 0),
		       COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'SALIDA'), 0),
		       COALESCE(SUM(total) FILTER (WHERE tipo_movimiento = 'ENTRADA'), 0),
		       COALESCE(SUM(total) FILTER (WHERE tipo_movimiento = 'SALIDA'), 0)
		FROM movimiento_inventario
		WHERE id_inventario = $1`, inventoryID,
	).Scan(&s.TotalMovements, &s.TotalEntradas, &s.TotalSalidas,
		&s.QuantityEntradas, &s.QuantitySalidas, &s.ValueEntradas, &s.ValueSalidas)
	if err != nil {
		return nil, fmt.Errorf("summarize movements: %w", err)
	}
	return &s, nil
}

// FindSaleOutflows ver repository.InventoryMovementRepository.
func (r *InventoryMovementRepo) FindSaleOutflows(ctx context.Context, q repository.SaleOutflowQuery) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id_movimiento
		FROM movimiento_inventario m
		JOIN inventario i ON m.id_inventario = i.id_inventario
		WHERE m.tipo_movimiento = 'SALIDA'
		  AND i.id_producto = $1
		  AND m.cantidad = $2
		  AND m.precio_unitario = $3
		  AND (m.id_venta = $4 OR (m.id_venta IS NULL AND m.fecha_movimiento::date = $5::date))
		ORDER BY (m.id_venta IS NULL), m.id_movimiento`,
		q.ProductID, q.Quantity, q.UnitPrice, q.SaleID, q.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("find sale outflows: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("find sale outflows: %w", err)
	}
	return ids, nil
}
