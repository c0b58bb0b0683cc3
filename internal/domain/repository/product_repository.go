package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// ProductRepository puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string, includeDeleted bool) (*entity.Product, error)
	GetByPLU(plu string) (*entity.Product, error)
	Update(product *entity.Product) error
	SoftDelete(product *entity.Product) error
	List(includeDeleted bool, limit, offset int) ([]*entity.Product, error)
	CountByType(productTypeID string) (int, error)
}
