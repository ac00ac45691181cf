package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el esquema puede disparar.
const (
	codeUniqueViolation = "23505" // inventario.id_producto UNIQUE
	codeCheckViolation  = "23514" // inventario.cantidad >= 0
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func isCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }
