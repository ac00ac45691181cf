package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrReference         = errors.New("referencia inexistente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError campos obligatorios ausentes o con formato inválido.
// Missing usa como clave el nombre JSON del campo.
type ValidationError struct {
	Message string
	Missing map[string]bool
}

// NewValidationError construye el error con los campos indicados marcados como faltantes.
func NewValidationError(message string, fields ...string) *ValidationError {
	e := &ValidationError{Message: message, Missing: map[string]bool{}}
	for _, f := range fields {
		e.Missing[f] = true
	}
	return e
}

// Add marca un campo como inválido.
func (e *ValidationError) Add(field string) {
	if e.Missing == nil {
		e.Missing = map[string]bool{}
	}
	e.Missing[field] = true
}

// HasErrors indica si se marcó algún campo.
func (e *ValidationError) HasErrors() bool { return len(e.Missing) > 0 }

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Missing))
	for f := range e.Missing {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ReferenceError una entidad referenciada (cliente, usuario, producto, proveedor, inventario) no existe.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("el %s especificado no existe (id %d)", e.Entity, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReference }

// ConflictError valor único duplicado o estado que impide la operación.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InsufficientStockError una SALIDA supera la cantidad disponible.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("#%d", e.ProductID)
	}
	return fmt.Sprintf("No hay suficiente stock para el producto %s. Stock disponible: %s, Cantidad solicitada: %s",
		name, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall unidades que faltan para cubrir la solicitud.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}
