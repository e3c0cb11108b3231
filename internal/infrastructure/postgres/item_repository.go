package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/normalize"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// Columnas de items en el orden que esperan los scans (search_name es interna,
// solo para búsqueda).
const itemColumns = `id, sku, name, category, quantity, base_unit, alt_units, min_level, unit_price, location, status, created_at, last_updated`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.Item, error) {
	var it entity.Item
	var altsJSON []byte
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Category, &it.Quantity, &it.BaseUnit,
		&altsJSON, &it.MinLevel, &it.UnitPrice, &it.Location, &it.Status,
		&it.CreatedAt, &it.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if len(altsJSON) > 0 {
		if err := json.Unmarshal(altsJSON, &it.AlternativeUnits); err != nil {
			return nil, fmt.Errorf("decode alt_units: %w", err)
		}
	}
	return &it, nil
}

func altsToJSON(alts []entity.UnitConversion) ([]byte, error) {
	if alts == nil {
		alts = []entity.UnitConversion{}
	}
	return json.Marshal(alts)
}

// Create persiste un artículo nuevo. search_name se deriva del nombre para la
// búsqueda sin tildes.
func (r *ItemRepo) Create(item *entity.Item) error {
	altsJSON, err := altsToJSON(item.AlternativeUnits)
	if err != nil {
		return fmt.Errorf("encode alt_units: %w", err)
	}
	query := `
		INSERT INTO items (id, sku, name, search_name, category, quantity, base_unit, alt_units, min_level, unit_price, location, status, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, normalize.SearchKey(item.Name), item.Category,
		item.Quantity, item.BaseUnit, altsJSON, item.MinLevel, item.UnitPrice,
		item.Location, item.Status, item.CreatedAt, item.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetBySKU obtiene un artículo por SKU; (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return it, nil
}

// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE); (nil, nil) si no existe.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return it, nil
}

// Update persiste los campos descriptivos del artículo. quantity no aparece en
// el SET: solo AdjustQuantity la toca.
func (r *ItemRepo) Update(item *entity.Item) error {
	altsJSON, err := altsToJSON(item.AlternativeUnits)
	if err != nil {
		return fmt.Errorf("encode alt_units: %w", err)
	}
	query := `
		UPDATE items
		SET name = $2, search_name = $3, category = $4, base_unit = $5, alt_units = $6,
		    min_level = $7, unit_price = $8, location = $9, status = $10, last_updated = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, normalize.SearchKey(item.Name), item.Category, item.BaseUnit,
		altsJSON, item.MinLevel, item.UnitPrice, item.Location, item.Status, item.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustQuantity aplica quantity += delta con la condición de no-negatividad en
// el mismo UPDATE. Cero filas afectadas significa guarda violada (la fila
// existe: el caller la bloqueó antes con GetForUpdate).
func (r *ItemRepo) AdjustQuantity(itemID string, delta decimal.Decimal, now time.Time) error {
	query := `
		UPDATE items
		SET quantity = quantity + $2, last_updated = $3
		WHERE id = $1 AND quantity + $2 >= 0`
	tag, err := r.q.Exec(context.Background(), query, itemID, delta, now)
	if err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// List filtra y pagina el catálogo, ordenado por nombre normalizado y SKU.
func (r *ItemRepo) List(filter repository.ItemFilter, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	args := make([]any, 0, 6)

	if filter.Query != "" {
		args = append(args, "%"+normalize.SearchKey(filter.Query)+"%")
		query += fmt.Sprintf(" AND (search_name LIKE $%d OR lower(sku) LIKE $%d)", len(args), len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}
	query += " ORDER BY search_name, sku"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

// Delete elimina un artículo. La FK desde transaction_lines respalda en BD la
// regla de no borrar artículos con historia.
func (r *ItemRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrItemReferenced
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
