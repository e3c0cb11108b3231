package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LowStock filtra los artículos en o bajo su umbral de reorden
// (MinLevel > 0 y Quantity <= MinLevel) y los ordena por criticidad:
// Quantity/MinLevel ascendente, el más crítico primero. Proyección pura,
// se recalcula bajo demanda; no se persiste ningún estado de alerta.
func LowStock(items []*entity.Item) []*entity.Item {
	low := make([]*entity.Item, 0)
	for _, it := range items {
		if it.MinLevel.GreaterThan(decimal.Zero) && it.Quantity.LessThanOrEqual(it.MinLevel) {
			low = append(low, it)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		a := low[i].Quantity.Div(low[i].MinLevel)
		b := low[j].Quantity.Div(low[j].MinLevel)
		if !a.Equal(b) {
			return a.LessThan(b)
		}
		return low[i].SKU < low[j].SKU
	})
	return low
}

// Valuation suma Quantity * UnitPrice de cada artículo con aritmética decimal
// exacta (valor total del inventario a precio vigente).
func Valuation(items []*entity.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total
}
