package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id_inventario, id_producto, cantidad, fecha_actualizacion`

func scanInventory(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	if err := row.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetByID obtiene el registro sin bloquearlo.
func (r *InventoryRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	rec, err := scanInventory(r.q.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventario WHERE id_inventario = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return rec, nil
}

// GetByIDForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	rec, err := scanInventory(r.q.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventario WHERE id_inventario = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return rec, nil
}

// GetByProductForUpdate obtiene el registro del producto y bloquea la fila.
func (r *InventoryRepo) GetByProductForUpdate(ctx context.Context, productID int64) (*entity.InventoryRecord, error) {
	rec, err := scanInventory(r.q.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventario WHERE id_producto = $1 FOR UPDATE`, productID))
	if err != nil {
		return nil, fmt.Errorf("get inventory by product for update: %w", err)
	}
	return rec, nil
}

// CreateIfMissing inserta el registro en 0; si otra transacción lo creó primero no hace nada.
func (r *InventoryRepo) CreateIfMissing(ctx context.Context, productID int64, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventario (id_producto, cantidad, fecha_actualizacion)
		VALUES ($1, 0, $2)
		ON CONFLICT (id_producto) DO NOTHING`, productID, at)
	if err != nil {
		return fmt.Errorf("create inventory if missing: %w", err)
	}
	return nil
}

// Create inserta el registro. domain.ErrConflict si el producto ya tiene inventario.
func (r *InventoryRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventario (id_producto, cantidad, fecha_actualizacion)
		VALUES ($1, $2, $3)
		RETURNING id_inventario`, rec.ProductID, rec.Quantity, rec.UpdatedAt).Scan(&rec.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create inventory: %w", err)
	}
	return nil
}

// UpdateQuantity persiste la cantidad calculada por el Ledger.
func (r *InventoryRepo) UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventario SET cantidad = $1, fecha_actualizacion = $2 WHERE id_inventario = $3`,
		quantity, at, id)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update inventory quantity: cantidad negativa rechazada por la base: %w", domain.ErrInsufficientStock)
		}
		return fmt.Errorf("update inventory quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el registro.
func (r *InventoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventario WHERE id_inventario = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const inventoryViewSelect = `
	SELECT i.id_inventario, i.id_producto, i.cantidad, i.fecha_actualizacion,
	       COALESCE(p.nombre, ''), COALESCE(p.precio_compra, 0), COALESCE(p.precio_venta, 0),
	       COALESCE(tl.nombre, '')
	FROM inventario i
	LEFT JOIN producto p ON i.id_producto = p.id_producto
	LEFT JOIN tipo_licor tl ON p.id_tipo_licor = tl.id_tipo_licor`

func scanInventoryView(row pgx.Row) (*entity.InventoryView, error) {
	var v entity.InventoryView
	err := row.Scan(&v.ID, &v.ProductID, &v.Quantity, &v.UpdatedAt,
		&v.ProductName, &v.PurchasePrice, &v.SalePrice, &v.LiquorTypeName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetView obtiene el registro con datos del producto.
func (r *InventoryRepo) GetView(ctx context.Context, id int64) (*entity.InventoryView, error) {
	v, err := scanInventoryView(r.q.QueryRow(ctx, inventoryViewSelect+` WHERE i.id_inventario = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory view: %w", err)
	}
	return v, nil
}

// ListViews lista todos los registros, el actualizado más recientemente primero.
func (r *InventoryRepo) ListViews(ctx context.Context) ([]entity.InventoryView, error) {
	rows, err := r.q.Query(ctx, inventoryViewSelect+` ORDER BY i.fecha_actualizacion DESC, i.id_inventario DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	list := make([]entity.InventoryView, 0)
	for rows.Next() {
		v, err := scanInventoryView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}
