package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

var _ repository.PartitionRepository = (*PartitionRepo)(nil)

const partitionColumns = `id, unit_id, weight, weight_before, weight_after, reason_id, observations,
		created_by, modified_by, deleted_by, created_at, updated_at, deleted_at`

// PartitionRepo implementación de PartitionRepository sobre PostgreSQL (usable con pool o tx).
type PartitionRepo struct {
	q Querier
}

// NewPartitionRepository construye el adaptador de particiones. Pasar pool o tx (Querier).
func NewPartitionRepository(q Querier) *PartitionRepo {
	return &PartitionRepo{q: q}
}

// Create persiste la partición con los snapshots del saldo. Append-only:
// peso y snapshots no se tocan nunca más.
func (r *PartitionRepo) Create(partition *entity.Partition) error {
	query := `
		INSERT INTO partitions (id, unit_id, weight, weight_before, weight_after, reason_id, observations,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		partition.ID, partition.UnitID, partition.Weight, partition.WeightBefore, partition.WeightAfter,
		partition.ReasonID, partition.Observations, partition.CreatedBy, partition.CreatedAt, partition.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert partition: %w", err)
	}
	return nil
}

// GetByID obtiene una partición por ID (excluye soft deleted).
func (r *PartitionRepo) GetByID(id string) (*entity.Partition, error) {
	query := `SELECT ` + partitionColumns + ` FROM partitions WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPartition(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partition: %w", err)
	}
	return p, nil
}

// UpdateMetadata actualiza solo motivo y observaciones.
func (r *PartitionRepo) UpdateMetadata(partition *entity.Partition) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE partitions SET reason_id = $2, observations = $3, modified_by = $4, updated_at = $5 WHERE id = $1`,
		partition.ID, partition.ReasonID, partition.Observations, partition.ModifiedBy, partition.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update partition metadata: %w", err)
	}
	return nil
}

// ListByUnit lista las particiones de una unidad en orden cronológico.
func (r *PartitionRepo) ListByUnit(unitID string) ([]*entity.Partition, error) {
	query := `SELECT ` + partitionColumns + ` FROM partitions
		WHERE unit_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, unitID)
	if err != nil {
		return nil, fmt.Errorf("list partitions by unit: %w", err)
	}
	defer rows.Close()
	return collectPartitions(rows)
}

// List lista particiones con paginación, más recientes primero.
func (r *PartitionRepo) List(limit, offset int) ([]*entity.Partition, error) {
	query := `SELECT ` + partitionColumns + ` FROM partitions
		WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	defer rows.Close()
	return collectPartitions(rows)
}

func collectPartitions(rows pgx.Rows) ([]*entity.Partition, error) {
	var list []*entity.Partition
	for rows.Next() {
		p, err := scanPartition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partition: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPartition(row pgx.Row) (*entity.Partition, error) {
	var p entity.Partition
	err := row.Scan(
		&p.ID, &p.UnitID, &p.Weight, &p.WeightBefore, &p.WeightAfter, &p.ReasonID, &p.Observations,
		&p.CreatedBy, &p.ModifiedBy, &p.DeletedBy, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
