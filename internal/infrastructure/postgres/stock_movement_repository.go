package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, element_id, kind, quantity, quantity_before, quantity_after,
		reason_id, reference, observations, created_by, recorded_at, created_at`

// StockMovementRepo implementación append-only de StockMovementRepository sobre
// PostgreSQL. No expone UPDATE ni DELETE: los movimientos son inmutables.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento con sus snapshots de saldo.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, element_id, kind, quantity, quantity_before, quantity_after,
			reason_id, reference, observations, created_by, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ElementID, movement.Kind, movement.Quantity,
		movement.QuantityBefore, movement.QuantityAfter, movement.ReasonID,
		movement.Reference, movement.Observations, movement.CreatedBy,
		movement.RecordedAt, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByElement historial paginado de un elemento, más recientes primero con
// orden estable (recorded_at DESC, id DESC). Filtros opcionales por tipo y rango.
func (r *StockMovementRepo) ListByElement(elementID string, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE element_id = $1`
	args := []any{elementID}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(` AND kind = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND recorded_at >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND recorded_at <= $%d`, len(args))
	}
	args = append(args, normalizeLimit(limit), offset)
	query += fmt.Sprintf(` ORDER BY recorded_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByElementAsc historia completa en orden cronológico, para replay.
func (r *StockMovementRepo) ListByElementAsc(elementID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE element_id = $1 ORDER BY recorded_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, elementID)
	if err != nil {
		return nil, fmt.Errorf("list movements asc: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ElementID, &m.Kind, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
			&m.ReasonID, &m.Reference, &m.Observations, &m.CreatedBy, &m.RecordedAt, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
