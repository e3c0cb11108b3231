package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore deduplicación de peticiones en memoria con expiración
// perezosa: las claves vencidas se limpian en cada Reserve.
type IdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]time.Time // clave -> expiración
}

// NewIdempotencyStore crea el almacén de claves vacío.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{seen: make(map[string]time.Time)}
}

// Reserve registra la clave si no está vigente; false si ya lo estaba.
func (s *IdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, exp := range s.seen {
		if !exp.After(now) {
			delete(s.seen, k)
		}
	}
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = now.Add(ttl)
	return true, nil
}
