package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateElementRequest body para POST /api/elements.
type CreateElementRequest struct {
	ElementTypeID   string          `json:"element_type_id" validate:"required,uuid"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description" validate:"omitempty,max=500"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"` // >= 0, validado en use case
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	Location        string          `json:"location" validate:"omitempty,max=200"`
	Observations    string          `json:"observations" validate:"omitempty,max=500"`
}

// IngressRequest body para POST /api/elements/:id/ingress.
type IngressRequest struct {
	Quantity     decimal.Decimal `json:"quantity"` // > 0, validado en use case
	Reference    string          `json:"reference" validate:"omitempty,max=200"`
	Observations string          `json:"observations" validate:"omitempty,max=500"`
}

// EgressRequest body para POST /api/elements/:id/egress. El motivo es obligatorio.
type EgressRequest struct {
	Quantity     decimal.Decimal `json:"quantity"` // > 0, validado en use case
	ReasonID     string          `json:"reason_id" validate:"required,uuid"`
	Reference    string          `json:"reference" validate:"omitempty,max=200"`
	Observations string          `json:"observations" validate:"omitempty,max=500"`
}

// AdjustmentRequest body para POST /api/elements/:id/adjustment.
// Delta es con signo y no puede ser 0; el texto de motivo es obligatorio.
type AdjustmentRequest struct {
	Delta        decimal.Decimal `json:"delta"`
	Reason       string          `json:"reason" validate:"required,min=1,max=200"`
	Observations string          `json:"observations" validate:"omitempty,max=500"`
}

// UpdateElementRequest body para PUT /api/elements/:id. Metadatos solamente:
// el stock se mueve únicamente por ingreso/egreso/ajuste.
type UpdateElementRequest struct {
	MinimumQuantity *decimal.Decimal `json:"minimum_quantity"`
	Location        *string          `json:"location" validate:"omitempty,max=200"`
	Observations    *string          `json:"observations" validate:"omitempty,max=500"`
}

// MovementHistoryRequest filtros para GET /api/elements/:id/movements.
type MovementHistoryRequest struct {
	Kind string `query:"kind" validate:"omitempty,oneof=INGRESO EGRESO AJUSTE"`
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// ElementResponse salida de un elemento.
type ElementResponse struct {
	ID              string          `json:"id"`
	ElementTypeID   string          `json:"element_type_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	TotalIngested   decimal.Decimal `json:"total_ingested"`
	Location        string          `json:"location,omitempty"`
	Observations    string          `json:"observations,omitempty"`
	Active          bool            `json:"active"`
	BelowThreshold  bool            `json:"below_threshold"`
	CreatedBy       *string         `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID             string          `json:"id"`
	ElementID      string          `json:"element_id"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	ReasonID       *string         `json:"reason_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Observations   string          `json:"observations,omitempty"`
	CreatedBy      *string         `json:"created_by,omitempty"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// MovementResult salida de ingreso/egreso/ajuste: elemento actualizado + movimiento.
type MovementResult struct {
	Element  ElementResponse  `json:"element"`
	Movement MovementResponse `json:"movement"`
}
