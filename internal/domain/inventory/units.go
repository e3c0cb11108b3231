package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ResolveUnit resuelve el factor de conversión a unidad base (servicio de dominio).
// Unidad base → 1; unidad alternativa → su ratio, por coincidencia exacta de nombre.
// Unidad desconocida → ErrUnknownUnit: el caller nunca asume ratio 1.
func ResolveUnit(item *entity.Item, unitName string) (decimal.Decimal, error) {
	if unitName == item.BaseUnit {
		return decimal.NewFromInt(1), nil
	}
	for _, alt := range item.AlternativeUnits {
		if alt.Name == unitName {
			return alt.Ratio, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("unidad %q en artículo %s: %w", unitName, item.SKU, domain.ErrUnknownUnit)
}

// ValidateUnits verifica las definiciones de unidades de un artículo: unidad
// base no vacía, ratios positivos, nombres únicos y distintos de la base.
func ValidateUnits(baseUnit string, alts []entity.UnitConversion) error {
	if baseUnit == "" {
		return fmt.Errorf("unidad base vacía: %w", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(alts))
	for _, alt := range alts {
		if alt.Name == "" || alt.Name == baseUnit {
			return fmt.Errorf("unidad alternativa %q: %w", alt.Name, domain.ErrInvalidInput)
		}
		if !alt.Ratio.GreaterThan(decimal.Zero) {
			return fmt.Errorf("ratio de %q debe ser > 0: %w", alt.Name, domain.ErrInvalidInput)
		}
		if _, dup := seen[alt.Name]; dup {
			return fmt.Errorf("unidad %q repetida: %w", alt.Name, domain.ErrInvalidInput)
		}
		seen[alt.Name] = struct{}{}
	}
	return nil
}
