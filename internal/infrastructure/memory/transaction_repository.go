package memory

import (
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación en memoria del puerto TransactionRepository.
type TransactionRepo struct {
	s    *Store
	inTx bool
}

// NewTransactionRepository construye el adaptador sobre el almacén compartido.
func NewTransactionRepository(s *Store) *TransactionRepo {
	return &TransactionRepo{s: s}
}

func (r *TransactionRepo) lock() {
	if !r.inTx {
		r.s.mu.Lock()
	}
}

func (r *TransactionRepo) unlock() {
	if !r.inTx {
		r.s.mu.Unlock()
	}
}

func (r *TransactionRepo) rlock() {
	if !r.inTx {
		r.s.mu.RLock()
	}
}

func (r *TransactionRepo) runlock() {
	if !r.inTx {
		r.s.mu.RUnlock()
	}
}

// Create persiste un movimiento confirmado con sus líneas.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	r.lock()
	defer r.unlock()

	if _, ok := r.s.txs[tx.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.txs[tx.ID] = cloneTransaction(tx)
	return nil
}

// GetByID obtiene un movimiento por ID; (nil, nil) si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	r.rlock()
	defer r.runlock()

	tx, ok := r.s.txs[id]
	if !ok {
		return nil, nil
	}
	return cloneTransaction(tx), nil
}

// Update reemplaza el contenido completo del movimiento bajo el mismo ID.
func (r *TransactionRepo) Update(tx *entity.Transaction) error {
	r.lock()
	defer r.unlock()

	if _, ok := r.s.txs[tx.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.txs[tx.ID] = cloneTransaction(tx)
	return nil
}

// Delete elimina un movimiento.
func (r *TransactionRepo) Delete(id string) error {
	r.lock()
	defer r.unlock()

	if _, ok := r.s.txs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.txs, id)
	return nil
}

// List devuelve movimientos filtrados, más reciente primero (fecha, luego
// fecha de creación, luego ID para un orden total estable).
func (r *TransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.Transaction, error) {
	r.rlock()
	defer r.runlock()

	out := make([]*entity.Transaction, 0, len(r.s.txs))
	for _, tx := range r.s.txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.Date.After(*filter.To) {
			continue
		}
		if filter.ItemID != "" && !txReferencesItem(tx, filter.ItemID) {
			continue
		}
		out = append(out, cloneTransaction(tx))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, limit, offset), nil
}

// ExistsLineForItem indica si algún movimiento confirmado referencia al artículo.
func (r *TransactionRepo) ExistsLineForItem(itemID string) (bool, error) {
	r.rlock()
	defer r.runlock()

	for _, tx := range r.s.txs {
		if txReferencesItem(tx, itemID) {
			return true, nil
		}
	}
	return false, nil
}

func txReferencesItem(tx *entity.Transaction, itemID string) bool {
	for _, line := range tx.Lines {
		if line.ItemID == itemID {
			return true
		}
	}
	return false
}
