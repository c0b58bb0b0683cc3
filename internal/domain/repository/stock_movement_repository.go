package repository

import (
	"time"

	"github.com/quesarte/queseria-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos de un elemento.
type MovementFilter struct {
	Kind string // INGRESO, EGRESO, AJUSTE; vacío = todos
	From *time.Time
	To   *time.Time
}

// StockMovementRepository puerto append-only para StockMovement.
// No hay Update ni Delete: los movimientos son inmutables una vez creados.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByElement devuelve los movimientos más recientes primero, con orden
	// estable (recorded_at DESC, id DESC).
	ListByElement(elementID string, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	// ListByElementAsc devuelve la historia completa en orden cronológico,
	// para replay/verificación de conservación.
	ListByElementAsc(elementID string) ([]*entity.StockMovement, error)
}
