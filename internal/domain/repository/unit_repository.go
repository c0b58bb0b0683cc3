package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// UnitRepository puerto de persistencia para Unit (DIP).
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de una transacción;
// solo el motor de ledger escribe CurrentWeight.
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id string, includeDeleted bool) (*entity.Unit, error)
	GetForUpdate(id string) (*entity.Unit, error)
	UpdateBalance(unit *entity.Unit) error
	UpdateMetadata(unit *entity.Unit) error
	SoftDelete(unit *entity.Unit) error
	List(onlyActive, includeDeleted bool, limit, offset int) ([]*entity.Unit, error)
	CountActiveByProduct(productID string) (int, error)
}
