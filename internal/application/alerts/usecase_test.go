package alerts_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/alerts"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func seedAlertItem(t *testing.T, items repository.ItemRepository, sku string, qty, minLevel int64, status string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, items.Create(&entity.Item{
		ID:          uuid.NewString(),
		SKU:         sku,
		Name:        "Artículo " + sku,
		Quantity:    decimal.NewFromInt(qty),
		BaseUnit:    "Pcs",
		MinLevel:    decimal.NewFromInt(minLevel),
		Status:      status,
		CreatedAt:   now,
		LastUpdated: now,
	}))
}

func TestLowStock_OrdenDeficitYExclusiones(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	uc := alerts.NewUseCase(items)

	seedAlertItem(t, items, "SKU-AGOTADO", 0, 10, entity.ItemStatusActive)   // criticidad 0
	seedAlertItem(t, items, "SKU-MEDIO", 5, 10, entity.ItemStatusActive)     // criticidad 0.5
	seedAlertItem(t, items, "SKU-SANO", 100, 10, entity.ItemStatusActive)    // fuera
	seedAlertItem(t, items, "SKU-SIN-UMBRAL", 0, 0, entity.ItemStatusActive) // sin umbral, fuera
	seedAlertItem(t, items, "SKU-INACTIVO", 0, 10, entity.ItemStatusInactive)

	resp, err := uc.LowStock()
	require.NoError(t, err)
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Alerts, 2)

	first := resp.Alerts[0]
	assert.Equal(t, "SKU-AGOTADO", first.SKU, "el agotado es el más crítico")
	assert.Equal(t, "0", first.Criticality.String())
	assert.Equal(t, "10", first.Deficit.String())

	second := resp.Alerts[1]
	assert.Equal(t, "SKU-MEDIO", second.SKU)
	assert.Equal(t, "0.5", second.Criticality.String())
	assert.Equal(t, "5", second.Deficit.String())
}

func TestLowStock_SinAlertasDevuelveVacio(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	uc := alerts.NewUseCase(items)

	seedAlertItem(t, items, "SKU-SANO", 100, 10, entity.ItemStatusActive)

	resp, err := uc.LowStock()
	require.NoError(t, err)
	assert.Zero(t, resp.Count)
	assert.NotNil(t, resp.Alerts, "lista vacía, no null")
	assert.Empty(t, resp.Alerts)
}

// Un movimiento que deja la existencia en el umbral dispara la alerta en la
// siguiente consulta: la proyección no guarda estado.
func TestLowStock_ReflejaCambiosInmediatamente(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	uc := alerts.NewUseCase(items)

	seedAlertItem(t, items, "SKU-1", 50, 10, entity.ItemStatusActive)

	resp, err := uc.LowStock()
	require.NoError(t, err)
	assert.Zero(t, resp.Count)

	it, err := items.GetBySKU("SKU-1")
	require.NoError(t, err)
	require.NoError(t, items.AdjustQuantity(it.ID, decimal.NewFromInt(-43), time.Now()))

	resp, err = uc.LowStock()
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "7", resp.Alerts[0].Quantity.String())
	assert.Equal(t, "3", resp.Alerts[0].Deficit.String())
}
