package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SeedDemo carga un catálogo de demostración en el almacén (SEED_DEMO=true,
// solo motor memory). Incluye artículos con unidades alternativas, uno en
// bajo stock y uno agotado para probar las alertas sin preparar datos.
func SeedDemo(s *Store) {
	now := time.Now()
	demo := []*entity.Item{
		{
			ID: "0b6e4a2e-1c1f-4a8a-9d3e-1a2b3c4d5e01", SKU: "TOR-M8",
			Name: "Tornillo hexagonal M8", Category: "Ferretería",
			Quantity: decimal.NewFromInt(1200), BaseUnit: "Pcs",
			AlternativeUnits: []entity.UnitConversion{{Name: "Caja", Ratio: decimal.NewFromInt(100)}},
			MinLevel:         decimal.NewFromInt(500), UnitPrice: decimal.RequireFromString("120.50"),
			Location: "Estante A-1", Status: entity.ItemStatusActive,
		},
		{
			ID: "0b6e4a2e-1c1f-4a8a-9d3e-1a2b3c4d5e02", SKU: "VAL-12",
			Name: "Válvula de bronce 1/2\"", Category: "Plomería",
			Quantity: decimal.NewFromInt(18), BaseUnit: "Pcs",
			AlternativeUnits: []entity.UnitConversion{{Name: "Caja", Ratio: decimal.NewFromInt(24)}},
			MinLevel:         decimal.NewFromInt(24), UnitPrice: decimal.RequireFromString("15500"),
			Location: "Estante B-3", Status: entity.ItemStatusActive,
		},
		{
			ID: "0b6e4a2e-1c1f-4a8a-9d3e-1a2b3c4d5e03", SKU: "CEM-50",
			Name: "Cemento gris 50 kg", Category: "Construcción",
			Quantity: decimal.NewFromInt(85), BaseUnit: "Saco",
			AlternativeUnits: []entity.UnitConversion{{Name: "Pallet", Ratio: decimal.NewFromInt(40)}},
			MinLevel:         decimal.NewFromInt(20), UnitPrice: decimal.RequireFromString("28900"),
			Location: "Bodega 2", Status: entity.ItemStatusActive,
		},
		{
			ID: "0b6e4a2e-1c1f-4a8a-9d3e-1a2b3c4d5e04", SKU: "CAB-THN",
			Name: "Cable THHN 12 AWG", Category: "Eléctrico",
			Quantity: decimal.NewFromInt(350), BaseUnit: "Metro",
			AlternativeUnits: []entity.UnitConversion{{Name: "Rollo", Ratio: decimal.NewFromInt(100)}},
			MinLevel:         decimal.NewFromInt(100), UnitPrice: decimal.RequireFromString("2350"),
			Location: "Estante C-2", Status: entity.ItemStatusActive,
		},
		{
			ID: "0b6e4a2e-1c1f-4a8a-9d3e-1a2b3c4d5e05", SKU: "PIN-BLA",
			Name: "Pintura blanca tipo 1", Category: "Pinturas",
			Quantity: decimal.Zero, BaseUnit: "Galón",
			AlternativeUnits: []entity.UnitConversion{{Name: "Caneca", Ratio: decimal.NewFromInt(5)}},
			MinLevel:         decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("68000"),
			Location: "Estante D-1", Status: entity.ItemStatusActive,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range demo {
		it.CreatedAt = now
		it.LastUpdated = now
		s.items[it.ID] = it
	}
}
