package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest body para POST /api/units (ingreso de mercadería).
type CreateUnitRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	InitialWeight decimal.Decimal `json:"initial_weight"` // > 0, validado en use case
	ReasonID      string          `json:"reason_id" validate:"required,uuid"`
	Observations  string          `json:"observations" validate:"omitempty,max=500"`
}

// AddPartitionRequest body para POST /api/units/:id/partitions.
// Weight 0 significa "cortar todo el resto".
type AddPartitionRequest struct {
	Weight       decimal.Decimal `json:"weight"` // >= 0, validado en use case
	ReasonID     *string         `json:"reason_id" validate:"omitempty,uuid"`
	Observations string          `json:"observations" validate:"omitempty,max=500"`
}

// UpdatePartitionRequest body para PUT /api/partitions/:id. Solo metadatos:
// nunca toca pesos ni saldos.
type UpdatePartitionRequest struct {
	Observations *string `json:"observations" validate:"omitempty,max=500"`
	ReasonID     *string `json:"reason_id" validate:"omitempty,uuid"`
}

// UpdateUnitRequest body para PUT /api/units/:id (observaciones de ingreso).
type UpdateUnitRequest struct {
	Observations *string `json:"observations" validate:"omitempty,max=500"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	InitialWeight decimal.Decimal `json:"initial_weight"`
	CurrentWeight decimal.Decimal `json:"current_weight"`
	Active        bool            `json:"active"`
	ReasonID      string          `json:"reason_id"`
	Observations  string          `json:"observations,omitempty"`
	CreatedBy     *string         `json:"created_by,omitempty"`
	ModifiedBy    *string         `json:"modified_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
}

// PartitionResponse salida de una partición.
type PartitionResponse struct {
	ID           string          `json:"id"`
	UnitID       string          `json:"unit_id"`
	Weight       decimal.Decimal `json:"weight"`
	WeightBefore decimal.Decimal `json:"weight_before"`
	WeightAfter  decimal.Decimal `json:"weight_after"`
	ReasonID     *string         `json:"reason_id,omitempty"`
	Observations string          `json:"observations,omitempty"`
	CreatedBy    *string         `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AddPartitionResponse salida con la unidad actualizada y la partición creada.
type AddPartitionResponse struct {
	Unit      UnitResponse      `json:"unit"`
	Partition PartitionResponse `json:"partition"`
}
