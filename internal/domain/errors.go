package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos son recuperables y de cara
// al caller; el núcleo nunca los suprime ni los degrada a pánico.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnknownUnit       = errors.New("unidad de medida desconocida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyTransaction  = errors.New("la transacción no tiene líneas")
	ErrItemReferenced    = errors.New("el artículo está referenciado por transacciones")
	ErrDuplicateRequest  = errors.New("petición duplicada")
)
