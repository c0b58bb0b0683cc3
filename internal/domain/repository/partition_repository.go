package repository

import "github.com/quesarte/queseria-api/internal/domain/entity"

// PartitionRepository puerto de persistencia para Partition.
// Create es append-only: peso y snapshots nunca se modifican después;
// UpdateMetadata solo toca motivo y observaciones.
type PartitionRepository interface {
	Create(partition *entity.Partition) error
	GetByID(id string) (*entity.Partition, error)
	UpdateMetadata(partition *entity.Partition) error
	ListByUnit(unitID string) ([]*entity.Partition, error)
	List(limit, offset int) ([]*entity.Partition, error)
}
