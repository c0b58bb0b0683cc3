package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// ElementTypeRepository puerto de persistencia para ElementType.
type ElementTypeRepository interface {
	Create(et *entity.ElementType) error
	GetByID(id string) (*entity.ElementType, error)
	GetByName(name string) (*entity.ElementType, error)
	Update(et *entity.ElementType) error
	SetActive(id string, active bool) error
	List(onlyActive bool) ([]*entity.ElementType, error)
}
