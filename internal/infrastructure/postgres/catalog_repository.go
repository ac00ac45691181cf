package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo consultas de existencia sobre producto, proveedor, cliente y usuario.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetProduct obtiene un producto con el nombre de su tipo de licor.
func (r *CatalogRepo) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `
		SELECT p.id_producto, p.nombre, p.id_tipo_licor, COALESCE(tl.nombre, ''), p.precio_compra, p.precio_venta
		FROM producto p
		LEFT JOIN tipo_licor tl ON p.id_tipo_licor = tl.id_tipo_licor
		WHERE p.id_producto = $1`, id,
	).Scan(&p.ID, &p.Name, &p.LiquorTypeID, &p.LiquorTypeName, &p.PurchasePrice, &p.SalePrice)
	if err != nil {
		return nil, notFoundAsNil("get product", err)
	}
	return &p, nil
}

// GetProvider obtiene un proveedor.
func (r *CatalogRepo) GetProvider(ctx context.Context, id int64) (*entity.Provider, error) {
	var p entity.Provider
	err := r.q.QueryRow(ctx, `
		SELECT id_proveedor, nombre, COALESCE(telefono, ''), COALESCE(correo, '')
		FROM proveedor WHERE id_proveedor = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.Email)
	if err != nil {
		return nil, notFoundAsNil("get provider", err)
	}
	return &p, nil
}

// GetCustomer obtiene un cliente.
func (r *CatalogRepo) GetCustomer(ctx context.Context, id int64) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id_cliente, nombre, COALESCE(documento, ''), COALESCE(telefono, ''), COALESCE(correo, '')
		FROM cliente WHERE id_cliente = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email)
	if err != nil {
		return nil, notFoundAsNil("get customer", err)
	}
	return &c, nil
}

// GetUser obtiene un usuario con su rol.
func (r *CatalogRepo) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE u.id_usuario = $1`, id))
	if err != nil {
		return nil, notFoundAsNil("get user", err)
	}
	return u, nil
}

// notFoundAsNil traduce pgx.ErrNoRows en nil (sin error); el resto se envuelve con op.
func notFoundAsNil(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
