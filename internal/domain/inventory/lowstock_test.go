package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func lowStockFixture(sku string, qty, minLevel int64) *entity.Item {
	return &entity.Item{
		SKU:      sku,
		Quantity: decimal.NewFromInt(qty),
		MinLevel: decimal.NewFromInt(minLevel),
	}
}

func TestLowStock_FiltraYOrdenaPorCriticidad(t *testing.T) {
	items := []*entity.Item{
		lowStockFixture("SKU-OK", 500, 100),  // 5.0: sobre el umbral, fuera
		lowStockFixture("SKU-MED", 50, 100),  // 0.5
		lowStockFixture("SKU-CRIT", 2, 100),  // 0.02: el más crítico
		lowStockFixture("SKU-EDGE", 100, 100), // 1.0: exactamente en el umbral, entra
		lowStockFixture("SKU-SIN", 0, 0),     // sin umbral configurado, fuera
	}

	low := inventory.LowStock(items)
	require.Len(t, low, 3)
	assert.Equal(t, "SKU-CRIT", low[0].SKU, "el más crítico primero")
	assert.Equal(t, "SKU-MED", low[1].SKU)
	assert.Equal(t, "SKU-EDGE", low[2].SKU, "Quantity == MinLevel también alerta")
}

func TestLowStock_CantidadCeroEntra(t *testing.T) {
	low := inventory.LowStock([]*entity.Item{lowStockFixture("SKU-0", 0, 10)})
	require.Len(t, low, 1)
	assert.Equal(t, "SKU-0", low[0].SKU)
}

func TestLowStock_EmpateDesempataPorSKU(t *testing.T) {
	low := inventory.LowStock([]*entity.Item{
		lowStockFixture("SKU-B", 5, 10),
		lowStockFixture("SKU-A", 50, 100),
	})
	require.Len(t, low, 2)
	assert.Equal(t, "SKU-A", low[0].SKU, "a igual criticidad el orden es estable por SKU")
	assert.Equal(t, "SKU-B", low[1].SKU)
}

func TestLowStock_SinUmbralNuncaAlerta(t *testing.T) {
	// MinLevel 0 significa "sin umbral": ni siquiera con existencia cero alerta.
	low := inventory.LowStock([]*entity.Item{lowStockFixture("SKU-NO", 0, 0)})
	assert.Empty(t, low)
}

func TestValuation_SumaDecimalExacta(t *testing.T) {
	items := []*entity.Item{
		{Quantity: decimal.RequireFromString("0.1"), UnitPrice: decimal.NewFromInt(3)},
		{Quantity: decimal.RequireFromString("0.2"), UnitPrice: decimal.NewFromInt(3)},
	}
	total := inventory.Valuation(items)
	assert.Equal(t, "0.9", total.String(), "0.1*3 + 0.2*3 = 0.9 sin deriva binaria")
}

func TestValuation_VaciaEsCero(t *testing.T) {
	assert.True(t, inventory.Valuation(nil).IsZero())
}
