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

var _ repository.ElementTypeRepository = (*ElementTypeRepo)(nil)

const elementTypeColumns = `id, name, unit_measure, category, description, tracks_stock, active`

// ElementTypeRepo implementación de ElementTypeRepository sobre PostgreSQL.
type ElementTypeRepo struct {
	q Querier
}

// NewElementTypeRepository construye el adaptador de tipos de elemento. Pasar pool o tx (Querier).
func NewElementTypeRepository(q Querier) *ElementTypeRepo {
	return &ElementTypeRepo{q: q}
}

// Create persiste un tipo de elemento. Nombre único.
func (r *ElementTypeRepo) Create(et *entity.ElementType) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO element_types (id, name, unit_measure, category, description, tracks_stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		et.ID, et.Name, et.UnitMeasure, et.Category, et.Description, et.TracksStock, et.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert element type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo de elemento por ID.
func (r *ElementTypeRepo) GetByID(id string) (*entity.ElementType, error) {
	query := `SELECT ` + elementTypeColumns + ` FROM element_types WHERE id = $1`
	et, err := scanElementType(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get element type: %w", err)
	}
	return et, nil
}

// GetByName busca por nombre exacto.
func (r *ElementTypeRepo) GetByName(name string) (*entity.ElementType, error) {
	query := `SELECT ` + elementTypeColumns + ` FROM element_types WHERE name = $1`
	et, err := scanElementType(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get element type by name: %w", err)
	}
	return et, nil
}

// Update actualiza los metadatos del tipo.
func (r *ElementTypeRepo) Update(et *entity.ElementType) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE element_types SET name = $2, unit_measure = $3, category = $4, description = $5, tracks_stock = $6
		WHERE id = $1`,
		et.ID, et.Name, et.UnitMeasure, et.Category, et.Description, et.TracksStock,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update element type: %w", err)
	}
	return nil
}

// SetActive activa o desactiva el tipo.
func (r *ElementTypeRepo) SetActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE element_types SET active = $2 WHERE id = $1`, id, active,
	)
	if err != nil {
		return fmt.Errorf("set element type active: %w", err)
	}
	return nil
}

// List lista tipos de elemento por nombre; onlyActive filtra los desactivados.
func (r *ElementTypeRepo) List(onlyActive bool) ([]*entity.ElementType, error) {
	query := `SELECT ` + elementTypeColumns + ` FROM element_types`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list element types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ElementType
	for rows.Next() {
		et, err := scanElementType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan element type: %w", err)
		}
		list = append(list, et)
	}
	return list, rows.Err()
}

func scanElementType(row pgx.Row) (*entity.ElementType, error) {
	var et entity.ElementType
	err := row.Scan(&et.ID, &et.Name, &et.UnitMeasure, &et.Category, &et.Description, &et.TracksStock, &et.Active)
	if err != nil {
		return nil, err
	}
	return &et, nil
}
