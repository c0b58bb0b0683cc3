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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, plu, product_type_id, sold_by_unit, price_per_kilo,
		created_by, modified_by, deleted_by, created_at, updated_at, deleted_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. PLU único.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, plu, product_type_id, sold_by_unit, price_per_kilo,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.PLU, product.ProductTypeID, product.SoldByUnit,
		product.PricePerKilo, product.CreatedBy, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Con includeDeleted=false excluye soft deleted.
func (r *ProductRepo) GetByID(id string, includeDeleted bool) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByPLU busca por código de balanza, incluyendo eliminados: un PLU borrado
// sigue reservado.
func (r *ProductRepo) GetByPLU(plu string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE plu = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, plu))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by plu: %w", err)
	}
	return p, nil
}

// Update actualiza el catálogo del producto. No permite cambiar PLU.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, product_type_id = $3, sold_by_unit = $4, price_per_kilo = $5,
			modified_by = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.ProductTypeID, product.SoldByUnit, product.PricePerKilo,
		product.ModifiedBy, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SoftDelete marca el producto como eliminado.
func (r *ProductRepo) SoftDelete(product *entity.Product) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = $2, deleted_by = $3, updated_at = $4 WHERE id = $1 AND deleted_at IS NULL`,
		product.ID, product.DeletedAt, product.DeletedBy, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}

// List lista productos con paginación, más recientes primero.
func (r *ProductRepo) List(includeDeleted bool, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountByType cuenta productos vivos de un tipo.
func (r *ProductRepo) CountByType(productTypeID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products WHERE product_type_id = $1 AND deleted_at IS NULL`,
		productTypeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by type: %w", err)
	}
	return count, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.PLU, &p.ProductTypeID, &p.SoldByUnit, &p.PricePerKilo,
		&p.CreatedBy, &p.ModifiedBy, &p.DeletedBy, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
