package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
)

// Normalize redondea una cantidad a dos decimales (precisión de balanza).
// Todas las cantidades del ledger pasan por aquí al entrar, para que la suma
// de movimientos reproduzca el saldo sin deriva de redondeo.
func Normalize(q decimal.Decimal) decimal.Decimal {
	return q.Round(2)
}

// EffectiveCutWeight resuelve el peso real a descontar de una unidad.
// requested == 0 significa "consumir todo el resto"; si el saldo ya es 0 el
// doble cierre se rechaza con ErrAlreadyDepleted. Un peso mayor al saldo
// disponible se rechaza con ErrInsufficientStock.
func EffectiveCutWeight(requested, current decimal.Decimal) (decimal.Decimal, error) {
	if requested.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	effective := requested
	if effective.IsZero() {
		if current.IsZero() {
			return decimal.Zero, domain.ErrAlreadyDepleted
		}
		effective = current
	}
	if effective.GreaterThan(current) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	return effective, nil
}

// IsBelowThreshold indica si un elemento está en o por debajo de su stock
// mínimo. Umbral 0 significa "sin alerta". Función pura: el motor nunca
// dispara alertas por sí mismo, esto lo consumen los reportes.
func IsBelowThreshold(e *entity.Element) bool {
	return e.MinimumQuantity.IsPositive() && e.CurrentQuantity.LessThanOrEqual(e.MinimumQuantity)
}

// Replay reproduce la secuencia de movimientos de un elemento desde el saldo
// inicial dado y devuelve el saldo final. Verifica además que cada movimiento
// encadene con el anterior (QuantityBefore del siguiente == QuantityAfter del
// previo); si la cadena está rota devuelve ErrInvalidInput.
// Los movimientos deben venir en orden cronológico ascendente.
func Replay(start decimal.Decimal, movements []*entity.StockMovement) (decimal.Decimal, error) {
	balance := start
	for _, m := range movements {
		if !m.QuantityBefore.Equal(balance) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		switch m.Kind {
		case entity.MovementIngress:
			balance = balance.Add(m.Quantity)
		case entity.MovementEgress:
			balance = balance.Sub(m.Quantity)
		case entity.MovementAdjustment:
			// El AJUSTE guarda |delta|; el sentido sale de los snapshots.
			if m.QuantityAfter.GreaterThanOrEqual(m.QuantityBefore) {
				balance = balance.Add(m.Quantity)
			} else {
				balance = balance.Sub(m.Quantity)
			}
		default:
			return decimal.Zero, domain.ErrInvalidInput
		}
		if !m.QuantityAfter.Equal(balance) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		if balance.IsNegative() {
			return decimal.Zero, domain.ErrNegativeResult
		}
	}
	return balance, nil
}
