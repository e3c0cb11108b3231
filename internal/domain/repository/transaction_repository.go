package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// TransactionFilter filtra el listado del libro kardex. Campos vacíos / nil se
// ignoran; From y To acotan por fecha de movimiento (inclusive).
type TransactionFilter struct {
	Type   string
	ItemID string
	From   *time.Time
	To     *time.Time
}

// TransactionRepository define el puerto de persistencia para los movimientos
// confirmados del kardex. GetByID devuelve (nil, nil) si el movimiento no existe.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	// Update reemplaza el contenido completo del movimiento bajo el mismo ID
	// (cabecera y líneas).
	Update(tx *entity.Transaction) error
	Delete(id string) error
	// List devuelve movimientos con sus líneas, más reciente primero;
	// limit <= 0 significa sin límite.
	List(filter TransactionFilter, limit, offset int) ([]*entity.Transaction, error)
	// ExistsLineForItem indica si algún movimiento confirmado referencia al
	// artículo (guarda la integridad histórica antes de borrar del catálogo).
	ExistsLineForItem(itemID string) (bool, error)
}
