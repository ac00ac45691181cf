package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id_usuario, u.nombre, u.correo, u.contrasena, u.id_rol, COALESCE(r.nombre, '')
	FROM usuario u
	LEFT JOIN rol r ON u.id_rol = r.id_rol`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail obtiene un usuario por correo (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE lower(u.correo) = lower($1)`, email))
	if err != nil {
		return nil, notFoundAsNil("get user by email", err)
	}
	return u, nil
}
