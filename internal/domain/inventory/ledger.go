package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
)

// ApplyMovement calcula la nueva cantidad de un registro de inventario (servicio de dominio).
// ENTRADA suma y SALIDA resta; una SALIDA mayor al stock actual se rechaza antes de mutar.
// El resultado nunca es negativo.
func ApplyMovement(current decimal.Decimal, movementType string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return current, fmt.Errorf("cantidad debe ser mayor a 0: %s", quantity)
	}
	var next decimal.Decimal
	switch movementType {
	case entity.MovementTypeEntrada:
		next = current.Add(quantity)
	case entity.MovementTypeSalida:
		if current.LessThan(quantity) {
			return current, ErrShortfall
		}
		next = current.Sub(quantity)
	default:
		return current, fmt.Errorf("tipo de movimiento inválido: %q", movementType)
	}
	if next.IsNegative() {
		next = decimal.Zero
	}
	return next, nil
}

// NetQuantity cantidad neta de una secuencia de movimientos, con piso en 0.
func NetQuantity(movements []entity.InventoryMovement) decimal.Decimal {
	net := decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeEntrada:
			net = net.Add(m.Quantity)
		case entity.MovementTypeSalida:
			net = net.Sub(m.Quantity)
		}
	}
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
