package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitConversionDTO unidad alternativa de un artículo (ratio a unidad base).
type UnitConversionDTO struct {
	Name  string          `json:"name" validate:"required"`
	Ratio decimal.Decimal `json:"ratio" validate:"required" swaggertype:"string"`
}

// CreateItemRequest entrada para crear un artículo. No acepta Quantity: todo
// artículo nace con existencia 0 y el stock entra solo vía movimientos IN.
type CreateItemRequest struct {
	SKU              string              `json:"sku" validate:"required,min=1,max=100"`
	Name             string              `json:"name" validate:"required,min=1,max=200"`
	Category         string              `json:"category"`
	BaseUnit         string              `json:"base_unit" validate:"required"`
	AlternativeUnits []UnitConversionDTO `json:"alternative_units"`
	MinLevel         decimal.Decimal     `json:"min_level" swaggertype:"string"`
	UnitPrice        decimal.Decimal     `json:"unit_price" swaggertype:"string"`
	Location         string              `json:"location"`
}

// UpdateItemRequest entrada para actualizar un artículo (sin SKU ni Quantity;
// el SKU es identidad y la existencia solo cambia vía el libro kardex).
type UpdateItemRequest struct {
	Name             *string              `json:"name" validate:"omitempty,min=1,max=200"`
	Category         *string              `json:"category"`
	BaseUnit         *string              `json:"base_unit"`
	AlternativeUnits *[]UnitConversionDTO `json:"alternative_units"`
	MinLevel         *decimal.Decimal     `json:"min_level" swaggertype:"string"`
	UnitPrice        *decimal.Decimal     `json:"unit_price" swaggertype:"string"`
	Location         *string              `json:"location"`
	Status           *string              `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ItemResponse salida de un artículo del catálogo.
type ItemResponse struct {
	ID               string              `json:"id"`
	SKU              string              `json:"sku"`
	Name             string              `json:"name"`
	Category         string              `json:"category"`
	Quantity         decimal.Decimal     `json:"quantity" swaggertype:"string"`
	BaseUnit         string              `json:"base_unit"`
	AlternativeUnits []UnitConversionDTO `json:"alternative_units"`
	MinLevel         decimal.Decimal     `json:"min_level" swaggertype:"string"`
	UnitPrice        decimal.Decimal     `json:"unit_price" swaggertype:"string"`
	Location         string              `json:"location"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	LastUpdated      time.Time           `json:"last_updated"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CategorySummaryDTO agregado de una categoría para el resumen del catálogo.
type CategorySummaryDTO struct {
	Category string          `json:"category"`
	Items    int             `json:"items"`
	Value    decimal.Decimal `json:"value" swaggertype:"string"`
}

// CatalogSummaryResponse resumen del catálogo: conteos y valoración a precio
// vigente (Quantity * UnitPrice por artículo, aritmética decimal exacta).
type CatalogSummaryResponse struct {
	TotalItems    int                  `json:"total_items"`
	TotalValue    decimal.Decimal      `json:"total_value" swaggertype:"string"`
	LowStockCount int                  `json:"low_stock_count"`
	ByCategory    []CategorySummaryDTO `json:"by_category"`
}
