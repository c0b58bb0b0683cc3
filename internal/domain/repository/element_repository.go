package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// ElementRepository puerto de persistencia para Element.
// GetByName busca también entre eliminados (withDeleted) para impedir
// reutilizar en silencio una identidad lógica borrada.
type ElementRepository interface {
	Create(element *entity.Element) error
	GetByID(id string, includeDeleted bool) (*entity.Element, error)
	GetForUpdate(id string) (*entity.Element, error)
	GetByName(name string) (*entity.Element, error)
	UpdateBalance(element *entity.Element) error
	UpdateMetadata(element *entity.Element) error
	SoftDelete(element *entity.Element) error
	List(includeDeleted bool, limit, offset int) ([]*entity.Element, error)
	ListBelowThreshold() ([]*entity.Element, error)
	CountByType(elementTypeID string) (int, error)
}
