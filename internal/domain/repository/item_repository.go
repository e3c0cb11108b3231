package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ItemFilter filtra el listado del catálogo. Query busca por SKU exacto o por
// nombre normalizado (sin tildes, case-insensitive); los demás campos son
// coincidencia exacta y se ignoran vacíos.
type ItemFilter struct {
	Query    string
	Category string
	Status   string
	Location string
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID/GetBySKU devuelven (nil, nil) cuando el artículo no existe.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); solo tiene
	// sentido con un repositorio atado a una transacción.
	GetForUpdate(id string) (*entity.Item, error)
	// Update persiste los campos descriptivos del artículo; nunca toca Quantity.
	Update(item *entity.Item) error
	// AdjustQuantity es el único punto de mutación de la existencia:
	// quantity = quantity + delta, condicionado a que el resultado sea >= 0.
	// Si la condición falla devuelve ErrInsufficientStock; la fila debe existir
	// (el caller la bloqueó antes con GetForUpdate).
	AdjustQuantity(itemID string, delta decimal.Decimal, now time.Time) error
	// List pagina el catálogo; limit <= 0 significa sin límite.
	List(filter ItemFilter, limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
}
