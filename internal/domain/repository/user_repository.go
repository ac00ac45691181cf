package repository

import (
	"context"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

// UserRepository acceso a usuarios para autenticación.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
