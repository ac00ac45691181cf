package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/inventory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestApplyMovement_Entrada(t *testing.T) {
	got, err := inventory.ApplyMovement(d(5), entity.MovementTypeEntrada, d(3))
	require.NoError(t, err)
	assert.True(t, got.Equal(d(8)), "5 + 3 debe ser 8, obtuvo %s", got)
}

func TestApplyMovement_Salida(t *testing.T) {
	got, err := inventory.ApplyMovement(d(5), entity.MovementTypeSalida, d(5))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestApplyMovement_SalidaInsuficiente(t *testing.T) {
	got, err := inventory.ApplyMovement(d(2), entity.MovementTypeSalida, d(3))
	assert.ErrorIs(t, err, inventory.ErrShortfall)
	assert.True(t, got.Equal(d(2)), "el stock no debe cambiar cuando se rechaza la salida")
}

func TestApplyMovement_CantidadYTipoInvalidos(t *testing.T) {
	_, err := inventory.ApplyMovement(d(2), entity.MovementTypeEntrada, d(0))
	assert.Error(t, err)

	_, err = inventory.ApplyMovement(d(2), entity.MovementTypeEntrada, d(-1))
	assert.Error(t, err)

	_, err = inventory.ApplyMovement(d(2), "AJUSTE", d(1))
	assert.Error(t, err)
}

// La cantidad resultante de aplicar movimientos uno a uno coincide con el neto del historial.
func TestApplyMovement_CoincideConNeto(t *testing.T) {
	seq := []entity.InventoryMovement{
		{Type: entity.MovementTypeEntrada, Quantity: d(10)},
		{Type: entity.MovementTypeSalida, Quantity: d(4)},
		{Type: entity.MovementTypeSalida, Quantity: d(7)}, // rechazada
		{Type: entity.MovementTypeEntrada, Quantity: d(2)},
		{Type: entity.MovementTypeSalida, Quantity: d(8)},
	}

	current := decimal.Zero
	var committed []entity.InventoryMovement
	for _, m := range seq {
		next, err := inventory.ApplyMovement(current, m.Type, m.Quantity)
		if err != nil {
			continue
		}
		require.False(t, next.IsNegative())
		current = next
		committed = append(committed, m)
	}

	assert.Len(t, committed, 4)
	assert.True(t, current.Equal(inventory.NetQuantity(committed)))
	assert.True(t, current.IsZero())
}
