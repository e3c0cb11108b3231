package ports

import (
	"context"
	"time"
)

// IdempotencyStore registra claves de petición ya procesadas para deduplicar
// reintentos (header Idempotency-Key). Implementado sobre Redis (SetNX) o en
// memoria según la configuración.
type IdempotencyStore interface {
	// Reserve intenta registrar la clave por el TTL dado. Devuelve false si la
	// clave ya estaba registrada (petición repetida).
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
