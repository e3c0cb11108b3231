package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLineRequest línea de un movimiento: cantidad en la unidad elegida.
type TransactionLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required" swaggertype:"string"`
	Unit     string          `json:"unit" validate:"required"`
}

// CommitTransactionRequest body para POST /api/ledger/transactions.
// Los metadatos de recepción (proveedor, PO, RI, adjuntos) solo aplican a IN.
type CommitTransactionRequest struct {
	Type         string                   `json:"type" validate:"required,oneof=IN OUT"`
	Date         *time.Time               `json:"date"` // nil -> fecha actual
	Lines        []TransactionLineRequest `json:"lines" validate:"required,min=1"`
	Notes        string                   `json:"notes"`
	SupplierName string                   `json:"supplier_name"`
	PONumber     string                   `json:"po_number"`
	RINumber     string                   `json:"ri_number"`
	Attachments  []string                 `json:"attachments"`
}

// EditTransactionRequest body para PUT /api/ledger/transactions/:id.
// Es un reemplazo completo del contenido (líneas incluidas); el tipo del
// movimiento no cambia en una edición.
type EditTransactionRequest struct {
	Date         *time.Time               `json:"date"`
	Lines        []TransactionLineRequest `json:"lines" validate:"required,min=1"`
	Notes        string                   `json:"notes"`
	SupplierName string                   `json:"supplier_name"`
	PONumber     string                   `json:"po_number"`
	RINumber     string                   `json:"ri_number"`
	Attachments  []string                 `json:"attachments"`
}

// TransactionLineResponse línea confirmada con su conversión congelada.
type TransactionLineResponse struct {
	ItemID            string          `json:"item_id"`
	ItemName          string          `json:"item_name"`
	QuantityInput     decimal.Decimal `json:"quantity_input" swaggertype:"string"`
	SelectedUnit      string          `json:"selected_unit"`
	ConversionRatio   decimal.Decimal `json:"conversion_ratio" swaggertype:"string"`
	TotalBaseQuantity decimal.Decimal `json:"total_base_quantity" swaggertype:"string"`
}

// TransactionResponse salida de un movimiento del kardex.
type TransactionResponse struct {
	ID           string                    `json:"id"`
	Date         time.Time                 `json:"date"`
	Type         string                    `json:"type"`
	Lines        []TransactionLineResponse `json:"lines"`
	Notes        string                    `json:"notes,omitempty"`
	SupplierName string                    `json:"supplier_name,omitempty"`
	PONumber     string                    `json:"po_number,omitempty"`
	RINumber     string                    `json:"ri_number,omitempty"`
	Attachments  []string                  `json:"attachments,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// TransactionListResponse lista paginada de movimientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// LowStockAlertDTO alerta de reorden para un artículo en o bajo su umbral.
type LowStockAlertDTO struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	MinLevel    decimal.Decimal `json:"min_level" swaggertype:"string"`
	BaseUnit    string          `json:"base_unit"`
	Deficit     decimal.Decimal `json:"deficit" swaggertype:"string"` // MinLevel - Quantity
	Location    string          `json:"location,omitempty"`
	Criticality decimal.Decimal `json:"criticality" swaggertype:"string"` // Quantity / MinLevel, 0 = agotado
}

// LowStockResponse alertas de bajo stock, más críticas primero.
type LowStockResponse struct {
	Alerts []LowStockAlertDTO `json:"alerts"`
	Count  int                `json:"count"`
}
