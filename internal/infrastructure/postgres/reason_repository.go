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

var _ repository.ReasonRepository = (*ReasonRepo)(nil)

// ReasonRepo implementación de ReasonRepository sobre PostgreSQL.
type ReasonRepo struct {
	q Querier
}

// NewReasonRepository construye el adaptador de motivos. Pasar pool o tx (Querier).
func NewReasonRepository(q Querier) *ReasonRepo {
	return &ReasonRepo{q: q}
}

// Create persiste un motivo. Nombre único.
func (r *ReasonRepo) Create(reason *entity.Reason) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO reasons (id, name, description, active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		reason.ID, reason.Name, reason.Description, reason.Active, reason.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reason: %w", err)
	}
	return nil
}

// GetByID obtiene un motivo por ID.
func (r *ReasonRepo) GetByID(id string) (*entity.Reason, error) {
	var m entity.Reason
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description, active, created_at FROM reasons WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reason: %w", err)
	}
	return &m, nil
}

// GetByName obtiene un motivo por nombre exacto.
func (r *ReasonRepo) GetByName(name string) (*entity.Reason, error) {
	var m entity.Reason
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description, active, created_at FROM reasons WHERE name = $1`, name,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reason by name: %w", err)
	}
	return &m, nil
}

// List lista motivos por nombre; onlyActive filtra los desactivados.
func (r *ReasonRepo) List(onlyActive bool) ([]*entity.Reason, error) {
	query := `SELECT id, name, description, active, created_at FROM reasons`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list reasons: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reason
	for rows.Next() {
		var m entity.Reason
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reason: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva un motivo.
func (r *ReasonRepo) SetActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE reasons SET active = $2 WHERE id = $1`, id, active,
	)
	if err != nil {
		return fmt.Errorf("set reason active: %w", err)
	}
	return nil
}
