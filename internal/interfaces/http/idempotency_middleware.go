package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
)

// HeaderIdempotencyKey header opcional para reintentos seguros de escrituras.
const HeaderIdempotencyKey = "Idempotency-Key"

const idempotencyTTL = 24 * time.Hour

// IdempotencyMiddleware reserva la clave Idempotency-Key antes de ejecutar la
// escritura. Una clave repetida dentro del TTL responde 409 sin tocar el libro;
// sin header la petición pasa tal cual.
func IdempotencyMiddleware(store ports.IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		ok, err := store.Reserve(c.Context(), key, idempotencyTTL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REQUEST", Message: "petición repetida: la clave de idempotencia ya fue usada"})
		}
		return c.Next()
	}
}
