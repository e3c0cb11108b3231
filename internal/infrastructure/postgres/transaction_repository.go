package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const txColumns = `id, date, type, notes, supplier_name, po_number, ri_number, attachments, created_at, updated_at`

const lineColumns = `transaction_id, line_no, item_id, item_name, quantity_input, selected_unit, conversion_ratio, total_base_quantity`

// TransactionRepo implementación del puerto TransactionRepository sobre PostgreSQL.
// El encabezado vive en transactions y las líneas en transaction_lines.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de persistencia para movimientos.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func attachmentsToJSON(atts []string) ([]byte, error) {
	if atts == nil {
		atts = []string{}
	}
	return json.Marshal(atts)
}

func scanTransaction(row rowScanner) (*entity.Transaction, error) {
	var tx entity.Transaction
	var attsJSON []byte
	err := row.Scan(
		&tx.ID, &tx.Date, &tx.Type, &tx.Notes, &tx.SupplierName, &tx.PONumber,
		&tx.RINumber, &attsJSON, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(attsJSON) > 0 {
		if err := json.Unmarshal(attsJSON, &tx.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments: %w", err)
		}
	}
	return &tx, nil
}

func (r *TransactionRepo) insertLines(ctx context.Context, txID string, lines []entity.TransactionLine) error {
	query := `
		INSERT INTO transaction_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, line := range lines {
		_, err := r.q.Exec(ctx, query,
			txID, i+1, line.ItemID, line.ItemName, line.QuantityInput,
			line.SelectedUnit, line.ConversionRatio, line.TotalBaseQuantity,
		)
		if err != nil {
			return fmt.Errorf("insert line %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *TransactionRepo) linesFor(ctx context.Context, txIDs []string) (map[string][]entity.TransactionLine, error) {
	if len(txIDs) == 0 {
		return map[string][]entity.TransactionLine{}, nil
	}
	query := `SELECT ` + lineColumns + ` FROM transaction_lines WHERE transaction_id = ANY($1) ORDER BY transaction_id, line_no`
	rows, err := r.q.Query(ctx, query, txIDs)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.TransactionLine, len(txIDs))
	for rows.Next() {
		var txID string
		var lineNo int
		var line entity.TransactionLine
		err := rows.Scan(
			&txID, &lineNo, &line.ItemID, &line.ItemName, &line.QuantityInput,
			&line.SelectedUnit, &line.ConversionRatio, &line.TotalBaseQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		out[txID] = append(out[txID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return out, nil
}

// Create persiste el movimiento con sus líneas numeradas desde 1.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	ctx := context.Background()
	attsJSON, err := attachmentsToJSON(tx.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	query := `
		INSERT INTO transactions (` + txColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		tx.ID, tx.Date, tx.Type, tx.Notes, tx.SupplierName, tx.PONumber,
		tx.RINumber, attsJSON, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return r.insertLines(ctx, tx.ID, tx.Lines)
}

// GetByID obtiene el movimiento con sus líneas; (nil, nil) si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	ctx := context.Background()
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`
	tx, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	lines, err := r.linesFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	tx.Lines = lines[id]
	return tx, nil
}

// Update reemplaza encabezado y líneas del movimiento conservando el ID.
func (r *TransactionRepo) Update(tx *entity.Transaction) error {
	ctx := context.Background()
	attsJSON, err := attachmentsToJSON(tx.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	query := `
		UPDATE transactions
		SET date = $2, notes = $3, supplier_name = $4, po_number = $5, ri_number = $6,
		    attachments = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		tx.ID, tx.Date, tx.Notes, tx.SupplierName, tx.PONumber, tx.RINumber,
		attsJSON, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1`, tx.ID); err != nil {
		return fmt.Errorf("delete old lines: %w", err)
	}
	return r.insertLines(ctx, tx.ID, tx.Lines)
}

// Delete elimina el movimiento; las líneas caen por ON DELETE CASCADE.
func (r *TransactionRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra y pagina movimientos, más recientes primero.
func (r *TransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, error) {
	ctx := context.Background()
	query := `SELECT ` + txColumns + ` FROM transactions WHERE 1=1`
	args := make([]any, 0, 6)

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM transaction_lines l WHERE l.transaction_id = transactions.id AND l.item_id = $%d)", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC, id DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Transaction, 0)
	ids := make([]string, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
		ids = append(ids, tx.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, tx := range out {
		tx.Lines = lines[tx.ID]
	}
	return out, nil
}

// ExistsLineForItem indica si algún movimiento referencia al artículo.
func (r *TransactionRepo) ExistsLineForItem(itemID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM transaction_lines WHERE item_id = $1)`
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists line for item: %w", err)
	}
	return exists, nil
}
