package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UseCase opera el libro kardex de forma transaccional: confirmar, editar y
// eliminar movimientos con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// La edición y la eliminación reversan primero el efecto del contenido anterior
// y luego aplican el nuevo, todo dentro de la misma transacción.
type UseCase struct {
	txRunner  TxRunner
	items     repository.ItemRepository
	movements repository.TransactionRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	items repository.ItemRepository,
	movements repository.TransactionRepository,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		items:     items,
		movements: movements,
	}
}

// Commit valida y confirma un movimiento completo: bloquea los artículos en
// orden de ID, construye el draft línea a línea (cada AddLine congela la
// conversión vigente y verifica la disponibilidad agregada del artículo) y
// aplica los ajustes de existencia. Si cualquier línea falla, no se persiste
// nada.
func (uc *UseCase) Commit(ctx context.Context, in dto.CommitTransactionRequest) (*dto.TransactionResponse, error) {
	if in.Type != entity.TransactionTypeIn && in.Type != entity.TransactionTypeOut {
		return nil, fmt.Errorf("tipo de movimiento %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyTransaction
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Unit == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	txID := uuid.New().String()

	var created *entity.Transaction
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.TransactionRepository,
	) error {
		locked, err := lockItems(items, lineItemIDs(in.Lines))
		if err != nil {
			return err
		}
		// Solo se confirma contra artículos activos; los inactivos conservan
		// su historia pero no reciben movimientos nuevos.
		for _, it := range locked {
			if it.Status == entity.ItemStatusInactive {
				return fmt.Errorf("artículo %s inactivo: %w", it.SKU, domain.ErrInvalidInput)
			}
		}

		draft, err := NewDraft(in.Type)
		if err != nil {
			return err
		}
		for _, l := range in.Lines {
			if _, err := draft.AddLine(locked[l.ItemID], l.Unit, l.Quantity); err != nil {
				return err
			}
		}

		tx := &entity.Transaction{
			ID:        txID,
			Date:      date,
			Type:      in.Type,
			Lines:     draft.Lines(),
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if in.Type == entity.TransactionTypeIn {
			tx.SupplierName = in.SupplierName
			tx.PONumber = in.PONumber
			tx.RINumber = in.RINumber
			tx.Attachments = in.Attachments
		}

		if err := movements.Create(tx); err != nil {
			return err
		}
		if err := applyLines(items, tx, now); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(created), nil
}

// Edit reemplaza el contenido de un movimiento confirmado bajo el mismo ID:
// reversa el efecto del contenido anterior, valida las nuevas líneas contra
// las definiciones vigentes de los artículos y aplica el nuevo efecto, todo en
// una sola transacción. El tipo del movimiento no cambia. Si reversar o
// reaplicar dejaría alguna existencia negativa, la edición completa se rechaza
// con ErrInsufficientStock y el movimiento queda intacto.
func (uc *UseCase) Edit(ctx context.Context, id string, in dto.EditTransactionRequest) (*dto.TransactionResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyTransaction
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Unit == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	var updated *entity.Transaction
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.TransactionRepository,
	) error {
		existing, err := movements.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		// Bloquear la unión de artículos viejos y nuevos en un solo orden.
		locked, err := lockItems(items, append(txItemIDs(existing), lineItemIDs(in.Lines)...))
		if err != nil {
			return err
		}

		if err := reverseLines(items, existing, now); err != nil {
			return err
		}

		// Las líneas nuevas se construyen directo, sin pasar por un draft: el
		// chequeo de disponibilidad del draft compara contra snapshots previos
		// a la reversa y rechazaría ediciones válidas. Con la reversa aplicada,
		// AdjustQuantity es la única verdad de suficiencia.
		newLines := make([]entity.TransactionLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			line, err := inventory.NewLine(locked[l.ItemID], l.Unit, l.Quantity)
			if err != nil {
				return err
			}
			newLines = append(newLines, line)
		}

		next := &entity.Transaction{
			ID:        existing.ID,
			Date:      existing.Date,
			Type:      existing.Type,
			Lines:     newLines,
			Notes:     in.Notes,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: now,
		}
		if in.Date != nil {
			next.Date = *in.Date
		}
		if existing.Type == entity.TransactionTypeIn {
			next.SupplierName = in.SupplierName
			next.PONumber = in.PONumber
			next.RINumber = in.RINumber
			next.Attachments = in.Attachments
		}

		if err := movements.Update(next); err != nil {
			return err
		}
		if err := applyLines(items, next, now); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(updated), nil
}

// Delete elimina un movimiento confirmado reversando su efecto completo sobre
// la existencia. Si la reversa dejaría alguna existencia negativa (eliminar un
// IN cuyo stock ya fue consumido), la eliminación se rechaza.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.TransactionRepository,
	) error {
		existing, err := movements.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if _, err := lockItems(items, txItemIDs(existing)); err != nil {
			return err
		}
		if err := reverseLines(items, existing, now); err != nil {
			return err
		}
		return movements.Delete(id)
	})
}

// Get obtiene un movimiento por ID con sus líneas.
func (uc *UseCase) Get(id string) (*dto.TransactionResponse, error) {
	tx, err := uc.movements.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return toTransactionResponse(tx), nil
}

// List lista movimientos del kardex con filtros y paginación, más reciente primero.
func (uc *UseCase) List(filter repository.TransactionFilter, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.DefaultPage()
	list, err := uc.movements.List(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.TransactionListResponse{
		Items: make([]dto.TransactionResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, tx := range list {
		out.Items = append(out.Items, *toTransactionResponse(tx))
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers internos
// ──────────────────────────────────────────────────────────────────────────────

// lockItems bloquea las filas de los artículos en orden ascendente de ID
// (orden total de bloqueo: dos confirmaciones concurrentes sobre los mismos
// artículos nunca se esperan en círculo). Devuelve los snapshots bloqueados.
func lockItems(items repository.ItemRepository, ids []string) (map[string]*entity.Item, error) {
	sorted := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	locked := make(map[string]*entity.Item, len(sorted))
	for _, id := range sorted {
		item, err := items.GetForUpdate(id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("artículo %s: %w", id, domain.ErrNotFound)
		}
		locked[id] = item
	}
	return locked, nil
}

// signedDelta devuelve el efecto de una línea sobre la existencia: positivo en
// IN, negativo en OUT.
func signedDelta(txType string, line entity.TransactionLine) decimal.Decimal {
	if txType == entity.TransactionTypeOut {
		return line.TotalBaseQuantity.Neg()
	}
	return line.TotalBaseQuantity
}

// applyLines aplica el efecto de cada línea a través del punto único de
// mutación de existencia. El error nombra al artículo de la línea ofensora.
func applyLines(items repository.ItemRepository, tx *entity.Transaction, now time.Time) error {
	for _, line := range tx.Lines {
		if err := items.AdjustQuantity(line.ItemID, signedDelta(tx.Type, line), now); err != nil {
			return fmt.Errorf("artículo %s: %w", line.ItemName, err)
		}
	}
	return nil
}

// reverseLines anula el efecto de cada línea (espejo exacto de applyLines).
func reverseLines(items repository.ItemRepository, tx *entity.Transaction, now time.Time) error {
	for _, line := range tx.Lines {
		if err := items.AdjustQuantity(line.ItemID, signedDelta(tx.Type, line).Neg(), now); err != nil {
			return fmt.Errorf("al reversar artículo %s: %w", line.ItemName, err)
		}
	}
	return nil
}

func lineItemIDs(lines []dto.TransactionLineRequest) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}

func txItemIDs(tx *entity.Transaction) []string {
	ids := make([]string, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}

func toTransactionResponse(tx *entity.Transaction) *dto.TransactionResponse {
	lines := make([]dto.TransactionLineResponse, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		lines = append(lines, dto.TransactionLineResponse{
			ItemID:            l.ItemID,
			ItemName:          l.ItemName,
			QuantityInput:     l.QuantityInput,
			SelectedUnit:      l.SelectedUnit,
			ConversionRatio:   l.ConversionRatio,
			TotalBaseQuantity: l.TotalBaseQuantity,
		})
	}
	return &dto.TransactionResponse{
		ID:           tx.ID,
		Date:         tx.Date,
		Type:         tx.Type,
		Lines:        lines,
		Notes:        tx.Notes,
		SupplierName: tx.SupplierName,
		PONumber:     tx.PONumber,
		RINumber:     tx.RINumber,
		Attachments:  tx.Attachments,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}
