package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

const unitColumns = `id, product_id, initial_weight, current_weight, active, reason_id, observations,
		created_by, modified_by, deleted_by, created_at, updated_at, deleted_at`

// UnitRepo implementación de UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una nueva unidad con su peso inicial.
func (r *UnitRepo) Create(unit *entity.Unit) error {
	query := `
		INSERT INTO units (id, product_id, initial_weight, current_weight, active, reason_id, observations,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.ProductID, unit.InitialWeight, unit.CurrentWeight, unit.Active,
		unit.ReasonID, unit.Observations, unit.CreatedBy, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID. Con includeDeleted=false excluye soft deleted.
func (r *UnitRepo) GetByID(id string, includeDeleted bool) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	u, err := scanUnit(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// GetForUpdate obtiene la unidad y bloquea la fila (SELECT FOR UPDATE).
// Incluye eliminadas: la decisión de rechazar la toma el caso de uso.
func (r *UnitRepo) GetForUpdate(id string) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1 FOR UPDATE`
	u, err := scanUnit(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit for update: %w", err)
	}
	return u, nil
}

// UpdateBalance escribe peso actual y bandera de activo (solo el motor de ledger).
func (r *UnitRepo) UpdateBalance(unit *entity.Unit) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE units SET current_weight = $2, active = $3, modified_by = $4, updated_at = $5 WHERE id = $1`,
		unit.ID, unit.CurrentWeight, unit.Active, unit.ModifiedBy, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update unit balance: %w", err)
	}
	return nil
}

// UpdateMetadata actualiza solo observaciones; nunca pesos ni activo.
func (r *UnitRepo) UpdateMetadata(unit *entity.Unit) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE units SET observations = $2, modified_by = $3, updated_at = $4 WHERE id = $1`,
		unit.ID, unit.Observations, unit.ModifiedBy, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update unit metadata: %w", err)
	}
	return nil
}

// SoftDelete marca la unidad como eliminada; el saldo queda congelado.
func (r *UnitRepo) SoftDelete(unit *entity.Unit) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE units SET deleted_at = $2, deleted_by = $3, updated_at = $4 WHERE id = $1 AND deleted_at IS NULL`,
		unit.ID, unit.DeletedAt, unit.DeletedBy, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete unit: %w", err)
	}
	return nil
}

// List lista unidades con paginación, más recientes primero.
func (r *UnitRepo) List(onlyActive, includeDeleted bool, limit, offset int) ([]*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE 1=1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if onlyActive {
		query += ` AND active = true`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountActiveByProduct cuenta unidades activas (no eliminadas) de un producto.
func (r *UnitRepo) CountActiveByProduct(productID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM units WHERE product_id = $1 AND active = true AND deleted_at IS NULL`,
		productID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count units by product: %w", err)
	}
	return count, nil
}

func scanUnit(row pgx.Row) (*entity.Unit, error) {
	var u entity.Unit
	err := row.Scan(
		&u.ID, &u.ProductID, &u.InitialWeight, &u.CurrentWeight, &u.Active, &u.ReasonID, &u.Observations,
		&u.CreatedBy, &u.ModifiedBy, &u.DeletedBy, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// normalizeLimit evita LIMIT 0 accidental: sin límite explícito se pagina a 100.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
