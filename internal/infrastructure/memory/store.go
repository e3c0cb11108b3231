// Package memory implementa los puertos de persistencia sobre mapas en memoria
// protegidos por un RWMutex (motor "memory": desarrollo y demos, sin
// durabilidad). Las transacciones se serializan con el lock de escritura y un
// snapshot profundo hace las veces de rollback.
package memory

import (
	"sync"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Store es el almacén en memoria del kardex.
type Store struct {
	mu    sync.RWMutex
	items map[string]*entity.Item
	txs   map[string]*entity.Transaction
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items: make(map[string]*entity.Item),
		txs:   make(map[string]*entity.Transaction),
	}
}

// cloneItem copia el artículo con sus slices; el almacén nunca comparte
// punteros con los callers.
func cloneItem(it *entity.Item) *entity.Item {
	out := *it
	out.AlternativeUnits = append([]entity.UnitConversion(nil), it.AlternativeUnits...)
	return &out
}

func cloneTransaction(tx *entity.Transaction) *entity.Transaction {
	out := *tx
	out.Lines = append([]entity.TransactionLine(nil), tx.Lines...)
	out.Attachments = append([]string(nil), tx.Attachments...)
	return &out
}

// snapshot copia profundamente el estado actual (se toma con el lock de
// escritura ya adquirido).
func (s *Store) snapshot() (map[string]*entity.Item, map[string]*entity.Transaction) {
	items := make(map[string]*entity.Item, len(s.items))
	for id, it := range s.items {
		items[id] = cloneItem(it)
	}
	txs := make(map[string]*entity.Transaction, len(s.txs))
	for id, tx := range s.txs {
		txs[id] = cloneTransaction(tx)
	}
	return items, txs
}

// restore reemplaza el estado completo por un snapshot previo (rollback).
func (s *Store) restore(items map[string]*entity.Item, txs map[string]*entity.Transaction) {
	s.items = items
	s.txs = txs
}
