package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

// Draft acumula las líneas de un movimiento antes de confirmarlo. Es un valor
// transitorio: nunca se persiste y no toca la existencia de ningún artículo.
// Cada línea se valida al agregarse (cantidad > 0, unidad resuelta) y en drafts
// de salida AddLine verifica además la disponibilidad agregada: varias líneas
// del mismo artículo compiten por la misma existencia, así que el chequeo es
// contra la suma acumulada en el draft, no línea a línea.
type Draft struct {
	txType string
	lines  []entity.TransactionLine
	totals map[string]decimal.Decimal // itemID -> suma de TotalBaseQuantity
}

// NewDraft crea un draft del tipo dado (IN u OUT).
func NewDraft(txType string) (*Draft, error) {
	if txType != entity.TransactionTypeIn && txType != entity.TransactionTypeOut {
		return nil, fmt.Errorf("tipo de movimiento %q: %w", txType, domain.ErrInvalidInput)
	}
	return &Draft{
		txType: txType,
		totals: make(map[string]decimal.Decimal),
	}, nil
}

// AddLine valida y agrega una línea, congelando la conversión vigente del
// artículo, y la devuelve. En un draft OUT falla con ErrInsufficientStock si el
// total acumulado para el artículo, contando la línea nueva, excede su
// existencia confirmada; la línea que no cabe no se agrega. El error nombra al
// artículo y las cantidades en juego.
func (d *Draft) AddLine(item *entity.Item, unitName string, quantity decimal.Decimal) (entity.TransactionLine, error) {
	line, err := inventory.NewLine(item, unitName, quantity)
	if err != nil {
		return entity.TransactionLine{}, err
	}
	requested := d.totals[item.ID].Add(line.TotalBaseQuantity)
	if d.txType == entity.TransactionTypeOut && requested.GreaterThan(item.Quantity) {
		return entity.TransactionLine{}, fmt.Errorf("artículo %s: disponible %s, solicitado %s: %w",
			item.SKU, item.Quantity, requested, domain.ErrInsufficientStock)
	}
	d.lines = append(d.lines, line)
	d.totals[item.ID] = requested
	return line, nil
}

// RemoveLine quita la línea en la posición dada. No revalida las líneas
// restantes: quitar una línea solo libera disponibilidad.
func (d *Draft) RemoveLine(index int) error {
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("línea %d fuera de rango: %w", index, domain.ErrInvalidInput)
	}
	removed := d.lines[index]
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
	d.totals[removed.ItemID] = d.totals[removed.ItemID].Sub(removed.TotalBaseQuantity)
	return nil
}

// Type devuelve el tipo del draft (IN u OUT).
func (d *Draft) Type() string { return d.txType }

// Lines devuelve una copia de las líneas acumuladas en orden de inserción.
func (d *Draft) Lines() []entity.TransactionLine {
	out := make([]entity.TransactionLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// Empty indica si el draft no tiene líneas; un draft vacío no es confirmable.
func (d *Draft) Empty() bool { return len(d.lines) == 0 }

// TotalFor devuelve el total agregado en unidad base para un artículo.
func (d *Draft) TotalFor(itemID string) decimal.Decimal { return d.totals[itemID] }
