package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/application/ledger"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

// ElementHandler maneja los elementos consumibles y su ledger de movimientos (protegido).
type ElementHandler struct {
	uc *ledger.ElementUseCase
}

// NewElementHandler construye el handler.
func NewElementHandler(uc *ledger.ElementUseCase) *ElementHandler {
	return &ElementHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un elemento
// @Description  El nombre es único incluso contra eliminados. Si initial_quantity > 0 se registra el movimiento génesis.
// @Tags         elements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateElementRequest  true  "element_type_id, name, initial_quantity"
// @Success      201   {object}  dto.ElementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/elements [post]
func (h *ElementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateElementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	element, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(element)
}

// List godoc
// @Summary      Listar elementos
// @Tags         elements
// @Security     Bearer
// @Produce      json
// @Param        include_deleted  query  bool  false  "Incluir eliminados (auditoría)"
// @Success      200  {array}  dto.ElementResponse
// @Router       /api/elements [get]
func (h *ElementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	includeDeleted := c.QueryBool("include_deleted", false)
	elements, err := h.uc.List(c.Context(), includeDeleted, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(elements), "elements": elements})
}

// GetByID godoc
// @Summary      Detalle de un elemento
// @Tags         elements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Element ID"
// @Success      200  {object}  dto.ElementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/elements/{id} [get]
func (h *ElementHandler) GetByID(c *fiber.Ctx) error {
	includeDeleted := c.QueryBool("include_deleted", false)
	element, err := h.uc.Get(c.Context(), c.Params("id"), includeDeleted)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(element)
}

// Update godoc
// @Summary      Actualizar metadatos del elemento
// @Description  Stock mínimo, ubicación y observaciones. El saldo solo se mueve por ingreso/egreso/ajuste.
// @Tags         elements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Element ID"
// @Param        body  body  dto.UpdateElementRequest  true  "minimum_quantity, location, observations"
// @Success      200   {object}  dto.ElementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/elements/{id} [put]
func (h *ElementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateElementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	element, err := h.uc.UpdateMetadata(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(element)
}

// Delete godoc
// @Summary      Eliminar un elemento (soft delete)
// @Description  El saldo queda congelado; el historial sigue consultable.
// @Tags         elements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Element ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/elements/{id} [delete]
func (h *ElementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.SoftDelete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "elemento eliminado"})
}

// Ingress godoc
// @Summary      Registrar ingreso de stock
// @Description  Suma cantidad al saldo y reactiva el elemento si estaba agotado.
// @Tags         elements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Element ID"
// @Param        body  body  dto.IngressRequest  true  "quantity > 0"
// @Success      201   {object}  dto.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/elements/{id}/ingress [post]
func (h *ElementHandler) Ingress(c *fiber.Ctx) error {
	var in dto.IngressRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterIngress(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Egress godoc
// @Summary      Registrar egreso de stock
// @Description  Resta cantidad del saldo. Motivo obligatorio. Si el saldo llega a 0 el elemento se desactiva.
// @Tags         elements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Element ID"
// @Param        body  body  dto.EgressRequest  true  "quantity > 0, reason_id"
// @Success      201   {object}  dto.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/elements/{id}/egress [post]
func (h *ElementHandler) Egress(c *fiber.Ctx) error {
	var in dto.EgressRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterEgress(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjustment godoc
// @Summary      Registrar ajuste de stock
// @Description  Delta con signo distinto de 0 y motivo en texto. No reactiva un elemento agotado.
// @Tags         elements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Element ID"
// @Param        body  body  dto.AdjustmentRequest  true  "delta != 0, reason"
// @Success      201   {object}  dto.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/elements/{id}/adjustment [post]
func (h *ElementHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterAdjustment(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos del elemento
// @Description  Más recientes primero. Filtros opcionales por tipo y rango de fechas (YYYY-MM-DD).
// @Tags         elements
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "Element ID"
// @Param        kind  query  string  false  "INGRESO | EGRESO | AJUSTE"
// @Param        from  query  string  false  "Fecha desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fecha hasta (YYYY-MM-DD)"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/elements/{id}/movements [get]
func (h *ElementHandler) Movements(c *fiber.Ctx) error {
	var in dto.MovementHistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	in.DefaultPage()

	filter := repository.MovementFilter{Kind: in.Kind}
	if in.From != "" {
		from, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'from' inválida"})
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'to' inválida"})
		}
		// Inclusivo: hasta el final del día.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	movements, err := h.uc.GetMovementHistory(c.Context(), c.Params("id"), filter, in.Limit, in.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movements), "movements": movements})
}

// Verify godoc
// @Summary      Verificar consistencia del ledger del elemento
// @Description  Reproduce todos los movimientos desde el génesis y compara con el saldo almacenado.
// @Tags         elements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Element ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/elements/{id}/verify [get]
func (h *ElementHandler) Verify(c *fiber.Ctx) error {
	if err := h.uc.VerifyConsistency(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ledger consistente"})
}

// BelowThreshold godoc
// @Summary      Elementos en o por debajo del stock mínimo
// @Tags         elements
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ElementResponse
// @Router       /api/elements/low-stock [get]
func (h *ElementHandler) BelowThreshold(c *fiber.Ctx) error {
	elements, err := h.uc.ListBelowThreshold(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(elements), "elements": elements})
}
