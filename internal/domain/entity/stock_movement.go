package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock de elementos.
const (
	MovementIngress    = "INGRESO"
	MovementEgress     = "EGRESO"
	MovementAdjustment = "AJUSTE"
)

// StockMovement registra un cambio atómico de stock de un Element.
// Quantity es siempre positiva; la dirección la da Kind (un AJUSTE negativo
// guarda el valor absoluto y el sentido se deduce de los snapshots).
// Los movimientos son append-only: nunca se editan ni se borran, y la
// secuencia QuantityBefore/QuantityAfter reproduce el saldo exacto.
type StockMovement struct {
	ID             string
	ElementID      string
	Kind           string // INGRESO, EGRESO, AJUSTE
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReasonID       *string // obligatorio en EGRESO, opcional en el resto
	Reference      string  // n° de factura, remito, etc.
	Observations   string
	CreatedBy      *string
	RecordedAt     time.Time
	CreatedAt      time.Time
}
