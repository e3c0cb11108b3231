package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/alerts"
	"github.com/jhoicas/kardex-api/internal/application/catalog"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp construye la API completa sobre el motor en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewTransactionRepository(store)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC:   catalog.NewUseCase(items, movements),
		LedgerUC:    ledger.NewUseCase(memory.NewTxRunner(store), items, movements),
		AlertsUC:    alerts.NewUseCase(items),
		Idempotency: memory.NewIdempotencyStore(),
	})
	return app
}

// doJSON lanza una petición con body JSON y devuelve la respuesta.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// createItem da de alta un artículo con Pcs como base y Box de 12 como alternativa.
func createItem(t *testing.T, app *fiber.App, sku, name string) dto.ItemResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/items", fiber.Map{
		"sku":       sku,
		"name":      name,
		"category":  "Widgets",
		"base_unit": "Pcs",
		"alternative_units": []fiber.Map{
			{"name": "Box", "ratio": "12"},
		},
		"min_level":  "10",
		"unit_price": "2.5",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "el alta del artículo debe responder 201")
	return decodeBody[dto.ItemResponse](t, resp)
}

// commitTx confirma un movimiento y exige el status esperado.
func commitTx(t *testing.T, app *fiber.App, txType, itemID, qty, unit string, wantStatus int) *http.Response {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", fiber.Map{
		"type": txType,
		"lines": []fiber.Map{
			{"item_id": itemID, "quantity": qty, "unit": unit},
		},
	}, nil)
	require.Equal(t, wantStatus, resp.StatusCode)
	return resp
}

// getQuantity consulta la existencia vigente del artículo vía la API.
func getQuantity(t *testing.T, app *fiber.App, itemID string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodGet, "/api/items/"+itemID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decodeBody[dto.ItemResponse](t, resp)
	return item.Quantity.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestItemsEndpoint_CrearYConsultar(t *testing.T) {
	app := buildTestApp(t)

	created := createItem(t, app, "WID-001", "Widget estándar")
	assert.Equal(t, "0", created.Quantity.String(), "todo artículo nace con existencia 0")
	assert.Equal(t, "active", created.Status)

	resp := doJSON(t, app, http.MethodGet, "/api/items/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[dto.ItemResponse](t, resp)
	assert.Equal(t, "WID-001", got.SKU)
	assert.Len(t, got.AlternativeUnits, 1)
	assert.Equal(t, "Box", got.AlternativeUnits[0].Name)

	resp = doJSON(t, app, http.MethodGet, "/api/items/no-existe", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestItemsEndpoint_SKUDuplicado(t *testing.T) {
	app := buildTestApp(t)
	createItem(t, app, "WID-001", "Widget estándar")

	resp := doJSON(t, app, http.MethodPost, "/api/items", fiber.Map{
		"sku": "WID-001", "name": "Otro widget", "base_unit": "Pcs",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE", errBody.Code)
	assert.Contains(t, errBody.Message, "WID-001", "el error debe nombrar el SKU en conflicto")
}

func TestItemsEndpoint_EliminarConHistoriaRechazado(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")
	commitTx(t, app, "IN", item.ID, "10", "Pcs", http.StatusCreated)

	resp := doJSON(t, app, http.MethodDelete, "/api/items/"+item.ID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "ITEM_REFERENCED", errBody.Code)

	// Sin historia sí se elimina.
	libre := createItem(t, app, "WID-002", "Widget sin movimientos")
	resp = doJSON(t, app, http.MethodDelete, "/api/items/"+libre.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestItemsEndpoint_BusquedaSinTildes(t *testing.T) {
	app := buildTestApp(t)
	createItem(t, app, "VAL-12", "Válvula de bola")
	createItem(t, app, "TOR-M8", "Tornillo M8")

	resp := doJSON(t, app, http.MethodGet, "/api/items?q=valvula", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.ItemListResponse](t, resp)
	require.Len(t, list.Items, 1, "la búsqueda sin tildes debe encontrar el nombre acentuado")
	assert.Equal(t, "VAL-12", list.Items[0].SKU)
}

func TestCatalogSummaryEndpoint(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")
	commitTx(t, app, "IN", item.ID, "4", "Box", http.StatusCreated) // 48 Pcs a 2.5

	resp := doJSON(t, app, http.MethodGet, "/api/catalog/summary", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decodeBody[dto.CatalogSummaryResponse](t, resp)
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, "120", summary.TotalValue.String(), "48 Pcs x 2.5 = 120")
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, "Widgets", summary.ByCategory[0].Category)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerEndpoint_FlujoCompleto(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")

	// Entrada: 100 Pcs.
	resp := commitTx(t, app, "IN", item.ID, "100", "Pcs", http.StatusCreated)
	entrada := decodeBody[dto.TransactionResponse](t, resp)
	require.Len(t, entrada.Lines, 1)
	assert.Equal(t, "100", entrada.Lines[0].TotalBaseQuantity.String())
	assert.Equal(t, "100", getQuantity(t, app, item.ID))

	// Salida: 8 Box = 96 Pcs con la conversión congelada en la línea.
	resp = commitTx(t, app, "OUT", item.ID, "8", "Box", http.StatusCreated)
	salida := decodeBody[dto.TransactionResponse](t, resp)
	assert.Equal(t, "12", salida.Lines[0].ConversionRatio.String())
	assert.Equal(t, "96", salida.Lines[0].TotalBaseQuantity.String())
	assert.Equal(t, "4", getQuantity(t, app, item.ID))

	// Historial filtrado por tipo.
	resp = doJSON(t, app, http.MethodGet, "/api/ledger/transactions?type=OUT", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.TransactionListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, salida.ID, list.Items[0].ID)

	// Detalle por ID.
	resp = doJSON(t, app, http.MethodGet, "/api/ledger/transactions/"+entrada.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[dto.TransactionResponse](t, resp)
	assert.Equal(t, "IN", got.Type)
}

func TestLedgerEndpoint_SalidaInsuficiente(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")
	commitTx(t, app, "IN", item.ID, "100", "Pcs", http.StatusCreated)

	// 9 Box = 108 > 100: se rechaza completo y la existencia no cambia.
	resp := commitTx(t, app, "OUT", item.ID, "9", "Box", http.StatusConflict)
	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Contains(t, errBody.Message, "WID-001", "el error debe nombrar el SKU sin stock")
	assert.Equal(t, "100", getQuantity(t, app, item.ID))
}

func TestLedgerEndpoint_UnidadDesconocida(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")
	commitTx(t, app, "IN", item.ID, "100", "Pcs", http.StatusCreated)

	resp := commitTx(t, app, "OUT", item.ID, "2", "Caja", http.StatusBadRequest)
	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UNKNOWN_UNIT", errBody.Code)
	assert.Contains(t, errBody.Message, "Caja")
	assert.Contains(t, errBody.Message, "WID-001")
	assert.Equal(t, "100", getQuantity(t, app, item.ID), "un movimiento rechazado no toca la existencia")
}

func TestLedgerEndpoint_EditarYEliminar(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")
	commitTx(t, app, "IN", item.ID, "100", "Pcs", http.StatusCreated)
	resp := commitTx(t, app, "OUT", item.ID, "8", "Box", http.StatusCreated)
	salida := decodeBody[dto.TransactionResponse](t, resp)
	require.Equal(t, "4", getQuantity(t, app, item.ID))

	// Editar la salida a 5 Box libera 36 Pcs.
	resp = doJSON(t, app, http.MethodPut, "/api/ledger/transactions/"+salida.ID, fiber.Map{
		"lines": []fiber.Map{
			{"item_id": item.ID, "quantity": "5", "unit": "Box"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	editada := decodeBody[dto.TransactionResponse](t, resp)
	assert.Equal(t, salida.ID, editada.ID, "la edición conserva el ID del movimiento")
	assert.Equal(t, "60", editada.Lines[0].TotalBaseQuantity.String())
	assert.Equal(t, "40", getQuantity(t, app, item.ID))

	// Eliminar la salida reversa su efecto completo.
	resp = doJSON(t, app, http.MethodDelete, "/api/ledger/transactions/"+salida.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, "100", getQuantity(t, app, item.ID))

	// Repetir la eliminación responde 404.
	resp = doJSON(t, app, http.MethodDelete, "/api/ledger/transactions/"+salida.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLedgerEndpoint_IdempotencyKey(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar")

	body := fiber.Map{
		"type": "IN",
		"lines": []fiber.Map{
			{"item_id": item.ID, "quantity": "50", "unit": "Pcs"},
		},
	}
	headers := map[string]string{"Idempotency-Key": "entrada-2026-001"}

	resp := doJSON(t, app, http.MethodPost, "/api/ledger/transactions", body, headers)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// El reintento con la misma clave no duplica la entrada.
	resp = doJSON(t, app, http.MethodPost, "/api/ledger/transactions", body, headers)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE_REQUEST", errBody.Code)
	assert.Equal(t, "50", getQuantity(t, app, item.ID))

	// Sin header no hay restricción.
	resp = doJSON(t, app, http.MethodPost, "/api/ledger/transactions", body, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, "100", getQuantity(t, app, item.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertsEndpoint_LowStock(t *testing.T) {
	app := buildTestApp(t)
	item := createItem(t, app, "WID-001", "Widget estándar") // min_level 10, nace en 0

	resp := doJSON(t, app, http.MethodGet, "/api/alerts/low-stock", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alarms := decodeBody[dto.LowStockResponse](t, resp)
	require.Equal(t, 1, alarms.Count, "un artículo recién creado con umbral está agotado")
	assert.Equal(t, "WID-001", alarms.Alerts[0].SKU)
	assert.Equal(t, "10", alarms.Alerts[0].Deficit.String())

	// Con stock por encima del umbral la alerta desaparece de inmediato.
	commitTx(t, app, "IN", item.ID, "50", "Pcs", http.StatusCreated)
	resp = doJSON(t, app, http.MethodGet, "/api/alerts/low-stock", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alarms = decodeBody[dto.LowStockResponse](t, resp)
	assert.Equal(t, 0, alarms.Count)

	// Y reaparece al cruzar el umbral con una salida.
	commitTx(t, app, "OUT", item.ID, "45", "Pcs", http.StatusCreated)
	resp = doJSON(t, app, http.MethodGet, "/api/alerts/low-stock", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alarms = decodeBody[dto.LowStockResponse](t, resp)
	require.Equal(t, 1, alarms.Count)
	assert.Equal(t, "5", alarms.Alerts[0].Quantity.String())
}

// Una petición sin body válido responde 400 INVALID_BODY en todos los POST.
func TestEndpoints_BodyInvalido(t *testing.T) {
	app := buildTestApp(t)
	for _, path := range []string{"/api/items", "/api/ledger/transactions"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte("{no-json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, fmt.Sprintf("POST %s con body roto debe responder 400", path))
		resp.Body.Close()
	}
}
