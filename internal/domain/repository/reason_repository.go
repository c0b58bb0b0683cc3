package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// ReasonRepository puerto de catálogo de motivos (lectura + alta/seed).
type ReasonRepository interface {
	Create(reason *entity.Reason) error
	GetByID(id string) (*entity.Reason, error)
	GetByName(name string) (*entity.Reason, error)
	List(onlyActive bool) ([]*entity.Reason, error)
	SetActive(id string, active bool) error
}
