package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

var _ repository.ElementRepository = (*ElementRepo)(nil)

const elementColumns = `id, element_type_id, name, description, current_quantity, minimum_quantity,
		total_ingested, location, observations, active,
		created_by, modified_by, deleted_by, created_at, updated_at, deleted_at`

// ElementRepo implementación de ElementRepository sobre PostgreSQL (usable con pool o tx).
type ElementRepo struct {
	q Querier
}

// NewElementRepository construye el adaptador de elementos. Pasar pool o tx (Querier).
func NewElementRepository(q Querier) *ElementRepo {
	return &ElementRepo{q: q}
}

// Create persiste un nuevo elemento. El nombre es único a nivel de tabla,
// incluidos los eliminados.
func (r *ElementRepo) Create(element *entity.Element) error {
	query := `
		INSERT INTO elements (id, element_type_id, name, description, current_quantity, minimum_quantity,
			total_ingested, location, observations, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		element.ID, element.ElementTypeID, element.Name, element.Description,
		element.CurrentQuantity, element.MinimumQuantity, element.TotalIngested,
		element.Location, element.Observations, element.Active,
		element.CreatedBy, element.CreatedAt, element.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert element: %w", err)
	}
	return nil
}

// GetByID obtiene un elemento por ID. Con includeDeleted=false excluye soft deleted.
func (r *ElementRepo) GetByID(id string, includeDeleted bool) (*entity.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	e, err := scanElement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get element: %w", err)
	}
	return e, nil
}

// GetForUpdate obtiene el elemento y bloquea la fila (SELECT FOR UPDATE).
// Incluye eliminados: la decisión de rechazar la toma el caso de uso.
func (r *ElementRepo) GetForUpdate(id string) (*entity.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements WHERE id = $1 FOR UPDATE`
	e, err := scanElement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get element for update: %w", err)
	}
	return e, nil
}

// GetByName busca por nombre incluyendo eliminados: una identidad borrada
// sigue reservando su nombre.
func (r *ElementRepo) GetByName(name string) (*entity.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements WHERE name = $1`
	e, err := scanElement(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get element by name: %w", err)
	}
	return e, nil
}

// UpdateBalance escribe saldo, acumulado y bandera de activo (solo el motor de ledger).
func (r *ElementRepo) UpdateBalance(element *entity.Element) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE elements SET current_quantity = $2, total_ingested = $3, active = $4, modified_by = $5, updated_at = $6
		WHERE id = $1`,
		element.ID, element.CurrentQuantity, element.TotalIngested, element.Active,
		element.ModifiedBy, element.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update element balance: %w", err)
	}
	return nil
}

// UpdateMetadata actualiza descripción, mínimo, ubicación y observaciones.
// Nunca toca saldos.
func (r *ElementRepo) UpdateMetadata(element *entity.Element) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE elements SET description = $2, minimum_quantity = $3, location = $4, observations = $5,
			modified_by = $6, updated_at = $7
		WHERE id = $1`,
		element.ID, element.Description, element.MinimumQuantity, element.Location, element.Observations,
		element.ModifiedBy, element.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update element metadata: %w", err)
	}
	return nil
}

// SoftDelete marca el elemento como eliminado; el saldo queda congelado.
func (r *ElementRepo) SoftDelete(element *entity.Element) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE elements SET deleted_at = $2, deleted_by = $3, updated_at = $4 WHERE id = $1 AND deleted_at IS NULL`,
		element.ID, element.DeletedAt, element.DeletedBy, element.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete element: %w", err)
	}
	return nil
}

// List lista elementos con paginación, más recientes primero.
func (r *ElementRepo) List(includeDeleted bool, limit, offset int) ([]*entity.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()
	return collectElements(rows)
}

// ListBelowThreshold lista elementos vivos con mínimo configurado cuyo saldo
// está en o por debajo del mínimo.
func (r *ElementRepo) ListBelowThreshold() ([]*entity.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements
		WHERE deleted_at IS NULL AND minimum_quantity > 0 AND current_quantity <= minimum_quantity
		ORDER BY current_quantity ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list elements below threshold: %w", err)
	}
	defer rows.Close()
	return collectElements(rows)
}

// CountByType cuenta elementos vivos de un tipo.
func (r *ElementRepo) CountByType(elementTypeID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM elements WHERE element_type_id = $1 AND deleted_at IS NULL`,
		elementTypeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count elements by type: %w", err)
	}
	return count, nil
}

func collectElements(rows pgx.Rows) ([]*entity.Element, error) {
	var list []*entity.Element
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanElement(row pgx.Row) (*entity.Element, error) {
	var e entity.Element
	err := row.Scan(
		&e.ID, &e.ElementTypeID, &e.Name, &e.Description, &e.CurrentQuantity, &e.MinimumQuantity,
		&e.TotalIngested, &e.Location, &e.Observations, &e.Active,
		&e.CreatedBy, &e.ModifiedBy, &e.DeletedBy, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
