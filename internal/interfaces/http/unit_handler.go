package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/application/ledger"
)

// UnitHandler maneja las unidades físicas y sus particiones (protegido).
type UnitHandler struct {
	uc *ledger.UnitUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *ledger.UnitUseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// Create godoc
// @Summary      Ingresar una unidad al inventario
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "product_id, initial_weight (gramos), reason_id"
// @Success      201   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	unit, err := h.uc.CreateUnit(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(unit)
}

// List godoc
// @Summary      Listar unidades
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        all              query  bool  false  "Incluir agotadas (active=false)"
// @Param        include_deleted  query  bool  false  "Incluir eliminadas (auditoría)"
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *UnitHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	onlyActive := !c.QueryBool("all", false)
	includeDeleted := c.QueryBool("include_deleted", false)
	units, err := h.uc.ListUnits(c.Context(), onlyActive, includeDeleted, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(units), "units": units})
}

// GetByID godoc
// @Summary      Detalle de una unidad con sus particiones
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Unit ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	includeDeleted := c.QueryBool("include_deleted", false)
	unit, partitions, err := h.uc.GetUnit(c.Context(), c.Params("id"), includeDeleted)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unit": unit, "partitions": partitions})
}

// Update godoc
// @Summary      Actualizar observaciones de la unidad
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Unit ID"
// @Param        body  body  dto.UpdateUnitRequest  true  "observations"
// @Success      200   {object}  dto.UnitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/units/{id} [put]
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUnitRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	unit, err := h.uc.UpdateUnitObservations(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(unit)
}

// Delete godoc
// @Summary      Eliminar una unidad (soft delete)
// @Description  El saldo queda congelado y la unidad deja de aceptar cortes.
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Unit ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [delete]
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.SoftDeleteUnit(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "unidad eliminada"})
}

// AddPartition godoc
// @Summary      Registrar un corte (partición) contra una unidad
// @Description  Descuenta el peso del saldo de la unidad. weight=0 corta todo el resto.
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Unit ID"
// @Param        body  body  dto.AddPartitionRequest  true  "weight (gramos), reason_id opcional"
// @Success      201   {object}  dto.AddPartitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/units/{id}/partitions [post]
func (h *UnitHandler) AddPartition(c *fiber.Ctx) error {
	var in dto.AddPartitionRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddPartition(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPartitions godoc
// @Summary      Historial global de particiones
// @Tags         partitions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartitionResponse
// @Router       /api/partitions [get]
func (h *UnitHandler) ListPartitions(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	partitions, err := h.uc.ListPartitions(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(partitions), "partitions": partitions})
}

// UpdatePartition godoc
// @Summary      Corregir metadatos de una partición
// @Description  Solo motivo y observaciones; los pesos registrados son inmutables.
// @Tags         partitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "Partition ID"
// @Param        body  body  dto.UpdatePartitionRequest  true  "reason_id, observations"
// @Success      200   {object}  dto.PartitionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/partitions/{id} [put]
func (h *UnitHandler) UpdatePartition(c *fiber.Ctx) error {
	var in dto.UpdatePartitionRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	partition, err := h.uc.UpdatePartitionMetadata(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(partition)
}
