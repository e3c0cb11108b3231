package alerts

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UseCase evalúa alertas de bajo stock bajo demanda. No persiste ningún
// estado de alerta: la proyección se recalcula desde el catálogo en cada
// consulta, así un movimiento confirmado se refleja de inmediato.
type UseCase struct {
	items repository.ItemRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(items repository.ItemRepository) *UseCase {
	return &UseCase{items: items}
}

// LowStock devuelve los artículos activos en o bajo su umbral de reorden,
// más críticos primero, con el déficit sugerido de reposición.
func (uc *UseCase) LowStock() (*dto.LowStockResponse, error) {
	active, err := uc.items.List(repository.ItemFilter{Status: entity.ItemStatusActive}, 0, 0)
	if err != nil {
		return nil, err
	}

	low := inventory.LowStock(active)
	out := make([]dto.LowStockAlertDTO, 0, len(low))
	for _, item := range low {
		// MinLevel > 0 garantizado por el filtro de LowStock.
		out = append(out, dto.LowStockAlertDTO{
			ItemID:      item.ID,
			SKU:         item.SKU,
			Name:        item.Name,
			Quantity:    item.Quantity,
			MinLevel:    item.MinLevel,
			BaseUnit:    item.BaseUnit,
			Deficit:     item.MinLevel.Sub(item.Quantity),
			Location:    item.Location,
			Criticality: item.Quantity.Div(item.MinLevel).Round(4),
		})
	}
	return &dto.LowStockResponse{Alerts: out, Count: len(out)}, nil
}
