package catalog_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/catalog"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func newCatalog(t *testing.T) (*catalog.UseCase, repository.ItemRepository, repository.TransactionRepository) {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewTransactionRepository(store)
	return catalog.NewUseCase(items, movements), items, movements
}

func createReq(sku, name string) dto.CreateItemRequest {
	return dto.CreateItemRequest{
		SKU:      sku,
		Name:     name,
		Category: "Ferretería",
		BaseUnit: "Pcs",
		AlternativeUnits: []dto.UnitConversionDTO{
			{Name: "Caja", Ratio: decimal.NewFromInt(12)},
		},
		MinLevel:  decimal.NewFromInt(10),
		UnitPrice: decimal.RequireFromString("150.25"),
		Location:  "A-1",
	}
}

func strPtr(s string) *string                   { return &s }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ArticuloNaceEnCeroYActivo(t *testing.T) {
	uc, _, _ := newCatalog(t)

	resp, err := uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)
	assert.True(t, resp.Quantity.IsZero(), "la existencia inicial siempre es 0; el stock entra vía movimientos IN")
	assert.Equal(t, entity.ItemStatusActive, resp.Status)
	assert.Equal(t, "TOR-M8", resp.SKU)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.AlternativeUnits, 1)
	assert.Equal(t, "Caja", resp.AlternativeUnits[0].Name)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc, _, _ := newCatalog(t)
	_, err := uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)

	_, err = uc.Create(createReq("TOR-M8", "Otro nombre"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "TOR-M8")
}

func TestCreate_Invalidos(t *testing.T) {
	uc, _, _ := newCatalog(t)

	cases := []struct {
		name   string
		mutate func(*dto.CreateItemRequest)
		want   error
	}{
		{"sin SKU", func(r *dto.CreateItemRequest) { r.SKU = "   " }, domain.ErrInvalidInput},
		{"sin nombre", func(r *dto.CreateItemRequest) { r.Name = "" }, domain.ErrInvalidInput},
		{"sin unidad base", func(r *dto.CreateItemRequest) { r.BaseUnit = "" }, domain.ErrInvalidInput},
		{"ratio cero", func(r *dto.CreateItemRequest) {
			r.AlternativeUnits = []dto.UnitConversionDTO{{Name: "Caja", Ratio: decimal.Zero}}
		}, domain.ErrInvalidInput},
		{"unidad repetida", func(r *dto.CreateItemRequest) {
			r.AlternativeUnits = []dto.UnitConversionDTO{
				{Name: "Caja", Ratio: decimal.NewFromInt(12)},
				{Name: "Caja", Ratio: decimal.NewFromInt(24)},
			}
		}, domain.ErrInvalidInput},
		{"alternativa igual a la base", func(r *dto.CreateItemRequest) {
			r.AlternativeUnits = []dto.UnitConversionDTO{{Name: "Pcs", Ratio: decimal.NewFromInt(2)}}
		}, domain.ErrInvalidInput},
		{"umbral negativo", func(r *dto.CreateItemRequest) { r.MinLevel = decimal.NewFromInt(-1) }, domain.ErrInvalidInput},
		{"precio negativo", func(r *dto.CreateItemRequest) { r.UnitPrice = decimal.NewFromInt(-5) }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createReq("SKU-"+tc.name, "Nombre")
			tc.mutate(&req)
			_, err := uc.Create(req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_PatchParcialNoTocaExistencia(t *testing.T) {
	uc, items, _ := newCatalog(t)
	created, err := uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)

	// La existencia sube por fuera del catálogo (kardex).
	require.NoError(t, items.AdjustQuantity(created.ID, decimal.NewFromInt(77), time.Now()))

	resp, err := uc.Update(created.ID, dto.UpdateItemRequest{
		Name:      strPtr("Tornillo hexagonal M8"),
		UnitPrice: decPtr(decimal.RequireFromString("199.90")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo hexagonal M8", resp.Name)
	assert.Equal(t, "199.9", resp.UnitPrice.String())
	assert.Equal(t, "77", resp.Quantity.String(), "editar el catálogo jamás altera la existencia")
	assert.Equal(t, "TOR-M8", resp.SKU, "el SKU es identidad, no se edita")
	assert.Equal(t, "Ferretería", resp.Category, "los campos no enviados se conservan")
}

func TestUpdate_RevalidaUnidades(t *testing.T) {
	uc, _, _ := newCatalog(t)
	created, err := uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)

	// Dejar la alternativa con el mismo nombre que la nueva base: inválido.
	_, err = uc.Update(created.ID, dto.UpdateItemRequest{BaseUnit: strPtr("Caja")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Reemplazo coherente de la definición completa: válido.
	resp, err := uc.Update(created.ID, dto.UpdateItemRequest{
		BaseUnit:         strPtr("Unidad"),
		AlternativeUnits: &[]dto.UnitConversionDTO{{Name: "Docena", Ratio: decimal.NewFromInt(12)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Unidad", resp.BaseUnit)
	require.Len(t, resp.AlternativeUnits, 1)
	assert.Equal(t, "Docena", resp.AlternativeUnits[0].Name)
}

func TestUpdate_EstadoInvalido(t *testing.T) {
	uc, _, _ := newCatalog(t)
	created, err := uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)

	_, err = uc.Update(created.ID, dto.UpdateItemRequest{Status: strPtr("archivado")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.Update(created.ID, dto.UpdateItemRequest{Status: strPtr(entity.ItemStatusInactive)})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusInactive, resp.Status)
}

func TestUpdate_NoExiste(t *testing.T) {
	uc, _, _ := newCatalog(t)
	_, err := uc.Update("no-existe", dto.UpdateItemRequest{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_SinHistoriaEliminaYConHistoriaRechaza(t *testing.T) {
	uc, _, movements := newCatalog(t)
	created, err := uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)

	// Con un movimiento confirmado que lo referencia, el borrado se rechaza.
	require.NoError(t, movements.Create(&entity.Transaction{
		ID:   "tx-1",
		Date: time.Now(),
		Type: entity.TransactionTypeIn,
		Lines: []entity.TransactionLine{{
			ItemID:            created.ID,
			ItemName:          created.Name,
			QuantityInput:     decimal.NewFromInt(1),
			SelectedUnit:      "Pcs",
			ConversionRatio:   decimal.NewFromInt(1),
			TotalBaseQuantity: decimal.NewFromInt(1),
		}},
	}))
	err = uc.Delete(created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemReferenced)
	assert.Contains(t, err.Error(), "TOR-M8")

	// Sin referencias, el borrado procede.
	require.NoError(t, movements.Delete("tx-1"))
	require.NoError(t, uc.Delete(created.ID))
	_, err = uc.GetByID(created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List y Summary
// ──────────────────────────────────────────────────────────────────────────────

func TestList_BusquedaSinTildesYFiltros(t *testing.T) {
	uc, _, _ := newCatalog(t)

	valv := createReq("VAL-12", "Válvula de bronce")
	valv.Category = "Plomería"
	_, err := uc.Create(valv)
	require.NoError(t, err)
	_, err = uc.Create(createReq("TOR-M8", "Tornillo M8"))
	require.NoError(t, err)

	// "valvula" sin tilde encuentra "Válvula".
	got, err := uc.List(repository.ItemFilter{Query: "valvula"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "VAL-12", got.Items[0].SKU)

	// Búsqueda por SKU parcial, case-insensitive.
	got, err = uc.List(repository.ItemFilter{Query: "tor-"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "TOR-M8", got.Items[0].SKU)

	// Filtro por categoría.
	got, err = uc.List(repository.ItemFilter{Category: "Plomería"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "VAL-12", got.Items[0].SKU)

	// Sin coincidencias.
	got, err = uc.List(repository.ItemFilter{Query: "inexistente"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestList_Paginacion(t *testing.T) {
	uc, _, _ := newCatalog(t)
	for _, sku := range []string{"AAA-1", "BBB-2", "CCC-3"} {
		_, err := uc.Create(createReq(sku, "Artículo "+sku))
		require.NoError(t, err)
	}

	page1, err := uc.List(repository.ItemFilter{}, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 2)
	assert.Equal(t, 2, page1.Page.Limit)

	page2, err := uc.List(repository.ItemFilter{}, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 1)
}

func TestSummary_ValoracionYCategorias(t *testing.T) {
	uc, items, _ := newCatalog(t)

	a := createReq("TOR-M8", "Tornillo M8") // Ferretería, precio 150.25, umbral 10
	created, err := uc.Create(a)
	require.NoError(t, err)
	require.NoError(t, items.AdjustQuantity(created.ID, decimal.NewFromInt(50), time.Now()))

	b := createReq("VAL-12", "Válvula")
	b.Category = "Plomería"
	b.UnitPrice = decimal.NewFromInt(1000)
	b.MinLevel = decimal.NewFromInt(5) // existencia 0 <= 5: en alerta
	_, err = uc.Create(b)
	require.NoError(t, err)

	sum, err := uc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalItems)
	assert.Equal(t, "7512.5", sum.TotalValue.String(), "50 x 150.25, el agotado no aporta valor")
	assert.Equal(t, 1, sum.LowStockCount)
	require.Len(t, sum.ByCategory, 2)
	assert.Equal(t, "Ferretería", sum.ByCategory[0].Category, "categorías en orden alfabético")
	assert.Equal(t, "Plomería", sum.ByCategory[1].Category)
	assert.Equal(t, 1, sum.ByCategory[0].Items)
}
