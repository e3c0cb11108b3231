package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner serializa cada transacción con el lock de escritura del almacén y
// restaura un snapshot profundo si fn falla: el equivalente en memoria del
// Begin/Commit/Rollback de PostgreSQL.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén compartido.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios atados a la transacción; si fn devuelve
// error se restaura el estado previo completo.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.TransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapItems, snapTxs := r.s.snapshot()
	items := &ItemRepo{s: r.s, inTx: true}
	movements := &TransactionRepo{s: r.s, inTx: true}

	if err := fn(items, movements); err != nil {
		r.s.restore(snapItems, snapTxs)
		return err
	}
	return nil
}
