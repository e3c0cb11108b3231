package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un artículo del catálogo.
const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

// UnitConversion define una unidad alternativa de un artículo.
// Ratio es la cantidad de unidades base que equivale a 1 unidad alternativa
// (factor multiplicativo, nunca desplazamiento aditivo); Ratio > 0 y Name
// único dentro del artículo y distinto de la unidad base.
type UnitConversion struct {
	Name  string
	Ratio decimal.Decimal
}

// Item representa un artículo (SKU) del catálogo con su existencia autoritativa.
// Quantity se denomina en BaseUnit y solo cambia a través del libro kardex
// (AdjustQuantity dentro de una unidad de trabajo); invariante Quantity >= 0
// después de cualquier operación confirmada.
type Item struct {
	ID               string
	SKU              string // código único de negocio
	Name             string
	Category         string
	Quantity         decimal.Decimal
	BaseUnit         string
	AlternativeUnits []UnitConversion
	MinLevel         decimal.Decimal // umbral de reorden en unidades base; 0 = sin umbral
	UnitPrice        decimal.Decimal // valoración por unidad base, >= 0
	Location         string
	Status           string // active | inactive
	CreatedAt        time.Time
	LastUpdated      time.Time
}
