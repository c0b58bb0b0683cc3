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

var _ repository.ProductTypeRepository = (*ProductTypeRepo)(nil)

const productTypeColumns = `id, name, created_by, modified_by, deleted_by, created_at, updated_at, deleted_at`

// ProductTypeRepo implementación de ProductTypeRepository sobre PostgreSQL.
type ProductTypeRepo struct {
	q Querier
}

// NewProductTypeRepository construye el adaptador de tipos de producto. Pasar pool o tx (Querier).
func NewProductTypeRepository(q Querier) *ProductTypeRepo {
	return &ProductTypeRepo{q: q}
}

// Create persiste un tipo de producto. Nombre único.
func (r *ProductTypeRepo) Create(pt *entity.ProductType) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO product_types (id, name, created_by, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		pt.ID, pt.Name, pt.CreatedBy, pt.CreatedAt, pt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo por ID. Con includeDeleted=false excluye soft deleted.
func (r *ProductTypeRepo) GetByID(id string, includeDeleted bool) (*entity.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_types WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	pt, err := scanProductType(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product type: %w", err)
	}
	return pt, nil
}

// GetByName busca por nombre exacto entre los vivos.
func (r *ProductTypeRepo) GetByName(name string) (*entity.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_types WHERE name = $1 AND deleted_at IS NULL`
	pt, err := scanProductType(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product type by name: %w", err)
	}
	return pt, nil
}

// Update actualiza el nombre del tipo.
func (r *ProductTypeRepo) Update(pt *entity.ProductType) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE product_types SET name = $2, modified_by = $3, updated_at = $4 WHERE id = $1`,
		pt.ID, pt.Name, pt.ModifiedBy, pt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product type: %w", err)
	}
	return nil
}

// SoftDelete marca el tipo como eliminado.
func (r *ProductTypeRepo) SoftDelete(pt *entity.ProductType) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE product_types SET deleted_at = $2, deleted_by = $3, updated_at = $4 WHERE id = $1 AND deleted_at IS NULL`,
		pt.ID, pt.DeletedAt, pt.DeletedBy, pt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete product type: %w", err)
	}
	return nil
}

// List lista tipos de producto por nombre.
func (r *ProductTypeRepo) List(includeDeleted bool) ([]*entity.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_types`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductType
	for rows.Next() {
		pt, err := scanProductType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		list = append(list, pt)
	}
	return list, rows.Err()
}

func scanProductType(row pgx.Row) (*entity.ProductType, error) {
	var pt entity.ProductType
	err := row.Scan(
		&pt.ID, &pt.Name, &pt.CreatedBy, &pt.ModifiedBy, &pt.DeletedBy,
		&pt.CreatedAt, &pt.UpdatedAt, &pt.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pt, nil
}
