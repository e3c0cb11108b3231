package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/alerts"
)

// AlertsHandler maneja las peticiones HTTP de alertas de reorden.
type AlertsHandler struct {
	uc *alerts.UseCase
}

// NewAlertsHandler construye el handler.
func NewAlertsHandler(uc *alerts.UseCase) *AlertsHandler {
	return &AlertsHandler{uc: uc}
}

// LowStock godoc
// @Summary      Alertas de bajo stock
// @Description  Artículos activos en o bajo su umbral de reorden, más críticos primero.
//               La lista se recalcula en cada consulta: un movimiento recién
//               confirmado se refleja de inmediato.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/alerts/low-stock [get]
func (h *AlertsHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
