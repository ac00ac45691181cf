package repository

import (
	"context"
	"time"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

// SaleFilter especificación componible para listar ventas.
type SaleFilter struct {
	CustomerID *int64
	UserID     *int64
	From       *time.Time
	To         *time.Time // exclusivo
	Limit      int
	Offset     int
}

// SaleRepository puerto de persistencia de ventas y su detalle.
type SaleRepository interface {
	CreateDetail(ctx context.Context, detail *entity.SaleDetail) error
	UpdateDetail(ctx context.Context, detail *entity.SaleDetail) error
	Create(ctx context.Context, sale *entity.Sale) error
	Update(ctx context.Context, sale *entity.Sale) error
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	GetDetail(ctx context.Context, detailID int64) (*entity.SaleDetail, error)
	GetView(ctx context.Context, id int64) (*entity.SaleView, error)
	List(ctx context.Context, filter SaleFilter) ([]entity.SaleView, error)
	// ListChronological todas las ventas con su detalle, por fecha y luego id ascendente.
	ListChronological(ctx context.Context) ([]entity.SaleView, error)
	Delete(ctx context.Context, sale *entity.Sale) error
	// LockBackfill serializa la regeneración retroactiva hasta el fin de la transacción.
	LockBackfill(ctx context.Context) error
}
