package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	TransactionTypeIn  = "IN"
	TransactionTypeOut = "OUT"
)

// TransactionLine es una línea de un movimiento confirmado. Congela la
// conversión vigente al crearla: TotalBaseQuantity = QuantityInput *
// ConversionRatio queda fijo aunque después cambien las unidades del artículo.
type TransactionLine struct {
	ItemID            string
	ItemName          string // copia del nombre al momento del movimiento
	QuantityInput     decimal.Decimal
	SelectedUnit      string
	ConversionRatio   decimal.Decimal
	TotalBaseQuantity decimal.Decimal
}

// Transaction es un registro confirmado del libro kardex. No se muta línea a
// línea: la edición reemplaza el contenido completo bajo el mismo ID.
type Transaction struct {
	ID    string
	Date  time.Time
	Type  string // IN | OUT
	Lines []TransactionLine
	Notes string

	// Metadatos de recepción, solo para movimientos IN.
	SupplierName string
	PONumber     string
	RINumber     string
	Attachments  []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
