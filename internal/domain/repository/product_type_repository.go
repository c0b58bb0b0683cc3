package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// ProductTypeRepository puerto de persistencia para ProductType.
type ProductTypeRepository interface {
	Create(pt *entity.ProductType) error
	GetByID(id string, includeDeleted bool) (*entity.ProductType, error)
	GetByName(name string) (*entity.ProductType, error)
	Update(pt *entity.ProductType) error
	SoftDelete(pt *entity.ProductType) error
	List(includeDeleted bool) ([]*entity.ProductType, error)
}
