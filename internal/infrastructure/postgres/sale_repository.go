package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// backfillLockKey clave del advisory lock que serializa la regeneración retroactiva.
const backfillLockKey int64 = 0x6c69636f72657261

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las líneas de la venta se guardan como JSONB en detalle_venta.productos.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreateDetail persiste el snapshot de líneas, subtotal e IVA.
func (r *SaleRepo) CreateDetail(ctx context.Context, d *entity.SaleDetail) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO detalle_venta (subtotal, iva, productos)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id_detalle_venta`, d.Subtotal, d.Tax, itemsOrEmpty(d.Items)).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create sale detail: %w", err)
	}
	return nil
}

// UpdateDetail reemplaza el snapshot.
func (r *SaleRepo) UpdateDetail(ctx context.Context, d *entity.SaleDetail) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE detalle_venta SET subtotal = $1, iva = $2, productos = $3::jsonb
		WHERE id_detalle_venta = $4`, d.Subtotal, d.Tax, itemsOrEmpty(d.Items), d.ID)
	if err != nil {
		return fmt.Errorf("update sale detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func itemsOrEmpty(items entity.SaleItems) entity.SaleItems {
	if items == nil {
		return entity.SaleItems{}
	}
	return items
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO venta (fecha, id_cliente, id_usuario, id_detalle_venta, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_venta`, s.Date, s.CustomerID, s.UserID, s.DetailID, s.Total).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// Update actualiza la cabecera.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE venta SET fecha = $1, id_cliente = $2, id_usuario = $3, total = $4
		WHERE id_venta = $5`, s.Date, s.CustomerID, s.UserID, s.Total, s.ID)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByIDForUpdate obtiene la cabecera y bloquea la fila.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id_venta, fecha, id_cliente, id_usuario, id_detalle_venta, total
		FROM venta WHERE id_venta = $1 FOR UPDATE`, id,
	).Scan(&s.ID, &s.Date, &s.CustomerID, &s.UserID, &s.DetailID, &s.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return &s, nil
}

// GetDetail obtiene el snapshot de la venta.
func (r *SaleRepo) GetDetail(ctx context.Context, detailID int64) (*entity.SaleDetail, error) {
	var d entity.SaleDetail
	err := r.q.QueryRow(ctx, `
		SELECT id_detalle_venta, subtotal, iva, productos
		FROM detalle_venta WHERE id_detalle_venta = $1 FOR UPDATE`, detailID,
	).Scan(&d.ID, &d.Subtotal, &d.Tax, &d.Items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale detail: %w", err)
	}
	return &d, nil
}

const saleViewSelect = `
	SELECT v.id_venta, v.fecha, v.id_cliente, v.id_usuario, v.id_detalle_venta, v.total,
	       COALESCE(c.nombre, ''), COALESCE(u.nombre, ''),
	       d.id_detalle_venta, d.subtotal, d.iva, d.productos
	FROM venta v
	JOIN detalle_venta d ON v.id_detalle_venta = d.id_detalle_venta
	LEFT JOIN cliente c ON v.id_cliente = c.id_cliente
	LEFT JOIN usuario u ON v.id_usuario = u.id_usuario`

func scanSaleView(row pgx.Row) (*entity.SaleView, error) {
	var v entity.SaleView
	err := row.Scan(&v.ID, &v.Date, &v.CustomerID, &v.UserID, &v.DetailID, &v.Total,
		&v.CustomerName, &v.UserName,
		&v.Detail.ID, &v.Detail.Subtotal, &v.Detail.Tax, &v.Detail.Items)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *SaleRepo) listViews(ctx context.Context, query string, args ...any) ([]entity.SaleView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]entity.SaleView, 0)
	for rows.Next() {
		v, err := scanSaleView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// GetView obtiene la venta compuesta con nombres y detalle.
func (r *SaleRepo) GetView(ctx context.Context, id int64) (*entity.SaleView, error) {
	v, err := scanSaleView(r.q.QueryRow(ctx, saleViewSelect+` WHERE v.id_venta = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return v, nil
}

// List lista ventas según el filtro, la fecha más reciente primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]entity.SaleView, error) {
	var b whereBuilder
	if f.CustomerID != nil {
		b.add("v.id_cliente = ?", *f.CustomerID)
	}
	if f.UserID != nil {
		b.add("v.id_usuario = ?", *f.UserID)
	}
	if f.From != nil {
		b.add("v.fecha >= ?::date", *f.From)
	}
	if f.To != nil {
		b.add("v.fecha < ?::date", *f.To)
	}
	query := saleViewSelect + b.where() + ` ORDER BY v.fecha DESC, v.id_venta DESC` + b.page(f.Limit, f.Offset)
	return r.listViews(ctx, query, b.args...)
}

// ListChronological todas las ventas por fecha y luego id ascendente.
func (r *SaleRepo) ListChronological(ctx context.Context) ([]entity.SaleView, error) {
	return r.listViews(ctx, saleViewSelect+` ORDER BY v.fecha ASC, v.id_venta ASC`)
}

// Delete elimina la venta y su detalle. Los movimientos quedan como traza.
func (r *SaleRepo) Delete(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM venta WHERE id_venta = $1`, s.ID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM detalle_venta WHERE id_detalle_venta = $1`, s.DetailID); err != nil {
		return fmt.Errorf("delete sale detail: %w", err)
	}
	return nil
}

// LockBackfill toma un advisory lock que se libera con la transacción.
func (r *SaleRepo) LockBackfill(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, backfillLockKey); err != nil {
		return fmt.Errorf("lock backfill: %w", err)
	}
	return nil
}
