package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/application/usecase"
)

// CatalogHandler agrupa los catálogos chicos: tipos de producto, tipos de
// elemento y motivos de movimiento.
type CatalogHandler struct {
	productTypeUC *usecase.ProductTypeUseCase
	elementTypeUC *usecase.ElementTypeUseCase
	reasonUC      *usecase.ReasonUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(
	productTypeUC *usecase.ProductTypeUseCase,
	elementTypeUC *usecase.ElementTypeUseCase,
	reasonUC *usecase.ReasonUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		productTypeUC: productTypeUC,
		elementTypeUC: elementTypeUC,
		reasonUC:      reasonUC,
	}
}

// ── Tipos de producto ────────────────────────────────────────────────────────

// CreateProductType crea un tipo de producto con nombre único.
func (h *CatalogHandler) CreateProductType(c *fiber.Ctx) error {
	var in dto.CreateProductTypeRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	pt, err := h.productTypeUC.Create(in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pt)
}

// UpdateProductType renombra un tipo de producto.
func (h *CatalogHandler) UpdateProductType(c *fiber.Ctx) error {
	var in dto.CreateProductTypeRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	pt, err := h.productTypeUC.Update(c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pt)
}

// ListProductTypes lista los tipos de producto.
func (h *CatalogHandler) ListProductTypes(c *fiber.Ctx) error {
	includeDeleted := c.QueryBool("include_deleted", false)
	types, err := h.productTypeUC.List(includeDeleted)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(types), "product_types": types})
}

// DeleteProductType elimina un tipo (409 si tiene productos vivos).
func (h *CatalogHandler) DeleteProductType(c *fiber.Ctx) error {
	if err := h.productTypeUC.Delete(c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "tipo de producto eliminado"})
}

// ── Tipos de elemento ────────────────────────────────────────────────────────

// CreateElementType crea un tipo de elemento con nombre único.
func (h *CatalogHandler) CreateElementType(c *fiber.Ctx) error {
	var in dto.CreateElementTypeRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	et, err := h.elementTypeUC.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(et)
}

// UpdateElementType actualiza un tipo de elemento.
func (h *CatalogHandler) UpdateElementType(c *fiber.Ctx) error {
	var in dto.CreateElementTypeRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	et, err := h.elementTypeUC.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(et)
}

// ListElementTypes lista los tipos de elemento (por defecto solo activos).
func (h *CatalogHandler) ListElementTypes(c *fiber.Ctx) error {
	onlyActive := !c.QueryBool("all", false)
	types, err := h.elementTypeUC.List(onlyActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(types), "element_types": types})
}

// DeactivateElementType desactiva un tipo (409 si tiene elementos vivos).
func (h *CatalogHandler) DeactivateElementType(c *fiber.Ctx) error {
	if err := h.elementTypeUC.Deactivate(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "tipo de elemento desactivado"})
}

// ── Motivos ──────────────────────────────────────────────────────────────────

// CreateReason crea un motivo de movimiento con nombre único.
func (h *CatalogHandler) CreateReason(c *fiber.Ctx) error {
	var in dto.CreateReasonRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	reason, err := h.reasonUC.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reason)
}

// ListReasons lista los motivos (por defecto solo activos).
func (h *CatalogHandler) ListReasons(c *fiber.Ctx) error {
	onlyActive := !c.QueryBool("all", false)
	reasons, err := h.reasonUC.List(onlyActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(reasons), "reasons": reasons})
}

// DeactivateReason desactiva un motivo; los movimientos históricos no cambian.
func (h *CatalogHandler) DeactivateReason(c *fiber.Ctx) error {
	if err := h.reasonUC.Deactivate(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "motivo desactivado"})
}
