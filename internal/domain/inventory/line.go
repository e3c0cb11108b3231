package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// NewLine construye una línea de movimiento congelando la conversión vigente.
// TotalBase = QuantityInput * Ratio(SelectedUnit)
// Cantidad no positiva → ErrInvalidQuantity; unidad no resuelta → ErrUnknownUnit.
func NewLine(item *entity.Item, unitName string, quantityInput decimal.Decimal) (entity.TransactionLine, error) {
	if !quantityInput.GreaterThan(decimal.Zero) {
		return entity.TransactionLine{}, fmt.Errorf("cantidad %s en artículo %s: %w", quantityInput, item.SKU, domain.ErrInvalidQuantity)
	}
	ratio, err := ResolveUnit(item, unitName)
	if err != nil {
		return entity.TransactionLine{}, err
	}
	return entity.TransactionLine{
		ItemID:            item.ID,
		ItemName:          item.Name,
		QuantityInput:     quantityInput,
		SelectedUnit:      unitName,
		ConversionRatio:   ratio,
		TotalBaseQuantity: quantityInput.Mul(ratio),
	}, nil
}
