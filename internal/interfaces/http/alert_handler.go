package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quesarte/queseria-api/internal/application/usecase"
)

// AlertHandler expone las alertas de stock para el tablero (protegido).
type AlertHandler struct {
	uc *usecase.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *usecase.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Elementos en o por debajo del mínimo y productos sin unidades activas.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlert
// @Router       /api/alerts/low-stock [get]
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	alerts, err := h.uc.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}
