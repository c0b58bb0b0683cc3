package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	domledger "github.com/quesarte/queseria-api/internal/domain/ledger"
	"github.com/quesarte/queseria-api/internal/domain/repository"
	"github.com/quesarte/queseria-api/pkg/keymutex"
)

// UnitUseCase motor del ledger de unidades: ingreso por peso y agotamiento por
// particiones. Toda mutación de CurrentWeight pasa por aquí, serializada por
// unidad (keymutex) y escrita junto al registro de la partición en una sola
// transacción (TxRunner + SELECT FOR UPDATE).
type UnitUseCase struct {
	txRunner    TxRunner
	unitRepo    repository.UnitRepository
	partRepo    repository.PartitionRepository
	productRepo repository.ProductRepository
	reasonRepo  repository.ReasonRepository
	locks       *keymutex.KeyMutex
	lockRetries int
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(
	txRunner TxRunner,
	unitRepo repository.UnitRepository,
	partRepo repository.PartitionRepository,
	productRepo repository.ProductRepository,
	reasonRepo repository.ReasonRepository,
	locks *keymutex.KeyMutex,
	lockRetries int,
) *UnitUseCase {
	if lockRetries < 0 {
		lockRetries = 0
	}
	return &UnitUseCase{
		txRunner:    txRunner,
		unitRepo:    unitRepo,
		partRepo:    partRepo,
		productRepo: productRepo,
		reasonRepo:  reasonRepo,
		locks:       locks,
		lockRetries: lockRetries,
	}
}

// CreateUnit registra el ingreso de una unidad física: peso inicial > 0 y
// motivo de ingreso obligatorio. La unidad nace con saldo igual al peso
// inicial y activa.
func (uc *UnitUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest, userID string) (*dto.UnitResponse, error) {
	weight := domledger.Normalize(in.InitialWeight)
	if !weight.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	reason, err := uc.reasonRepo.GetByID(in.ReasonID)
	if err != nil {
		return nil, err
	}
	if reason == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	unit := &entity.Unit{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		InitialWeight: weight,
		CurrentWeight: weight,
		Active:        true,
		ReasonID:      in.ReasonID,
		Observations:  in.Observations,
		Audit: entity.Audit{
			CreatedBy: actorRef(userID),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := uc.unitRepo.Create(unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// AddPartition descuenta un corte del saldo de la unidad. Peso 0 se interpreta
// como "cortar todo el resto" (falla con ErrAlreadyDepleted si ya no queda
// nada). Si el saldo llega exactamente a 0 la unidad se desactiva y no vuelve
// a reactivarse. Saldo y partición se escriben en la misma transacción, con la
// fila de la unidad bloqueada.
func (uc *UnitUseCase) AddPartition(ctx context.Context, unitID string, in dto.AddPartitionRequest, userID string) (*dto.AddPartitionResponse, error) {
	if in.Weight.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	// Solo el 0 literal significa "el resto": un peso positivo que redondea
	// a 0 no puede convertirse en el centinela y agotar la unidad entera.
	requested := decimal.Zero
	if !in.Weight.IsZero() {
		requested = domledger.Normalize(in.Weight)
		if requested.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	}

	if in.ReasonID != nil && *in.ReasonID != "" {
		reason, err := uc.reasonRepo.GetByID(*in.ReasonID)
		if err != nil {
			return nil, err
		}
		if reason == nil {
			return nil, domain.ErrNotFound
		}
	}

	var out *dto.AddPartitionResponse
	err := runLocked(ctx, uc.locks, uc.lockRetries, "unit:"+unitID, func() error {
		return uc.txRunner.RunUnits(ctx, func(
			unitRepo repository.UnitRepository,
			partRepo repository.PartitionRepository,
		) error {
			unit, err := unitRepo.GetForUpdate(unitID)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrNotFound
			}
			if unit.IsDeleted() {
				return domain.ErrDeleted
			}
			if !unit.Active {
				return domain.ErrInactive
			}

			effective, err := domledger.EffectiveCutWeight(requested, unit.CurrentWeight)
			if err != nil {
				return err
			}

			now := time.Now()
			before := unit.CurrentWeight
			unit.CurrentWeight = before.Sub(effective)
			if unit.CurrentWeight.IsZero() {
				unit.Active = false
			}
			unit.UpdatedAt = now

			partition := &entity.Partition{
				ID:           uuid.New().String(),
				UnitID:       unit.ID,
				Weight:       effective,
				WeightBefore: before,
				WeightAfter:  unit.CurrentWeight,
				ReasonID:     in.ReasonID,
				Observations: in.Observations,
				Audit: entity.Audit{
					CreatedBy: actorRef(userID),
					CreatedAt: now,
					UpdatedAt: now,
				},
			}

			if err := unitRepo.UpdateBalance(unit); err != nil {
				return err
			}
			if err := partRepo.Create(partition); err != nil {
				return err
			}
			out = &dto.AddPartitionResponse{
				Unit:      *toUnitResponse(unit),
				Partition: *toPartitionResponse(partition),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePartitionMetadata corrige motivo u observaciones de una partición.
// Nunca toca pesos ni el saldo de la unidad: es corrección de metadatos, no
// una operación de ledger, y repetirla con el mismo payload es idempotente.
func (uc *UnitUseCase) UpdatePartitionMetadata(ctx context.Context, partitionID string, in dto.UpdatePartitionRequest, userID string) (*dto.PartitionResponse, error) {
	partition, err := uc.partRepo.GetByID(partitionID)
	if err != nil {
		return nil, err
	}
	if partition == nil {
		return nil, domain.ErrNotFound
	}

	if in.Observations != nil {
		partition.Observations = *in.Observations
	}
	if in.ReasonID != nil {
		if *in.ReasonID == "" {
			partition.ReasonID = nil
		} else {
			reason, err := uc.reasonRepo.GetByID(*in.ReasonID)
			if err != nil {
				return nil, err
			}
			if reason == nil {
				return nil, domain.ErrNotFound
			}
			partition.ReasonID = in.ReasonID
		}
	}
	partition.Touch(actorRef(userID), time.Now())

	if err := uc.partRepo.UpdateMetadata(partition); err != nil {
		return nil, err
	}
	return toPartitionResponse(partition), nil
}

// UpdateUnitObservations actualiza las observaciones de ingreso de la unidad.
func (uc *UnitUseCase) UpdateUnitObservations(ctx context.Context, unitID string, in dto.UpdateUnitRequest, userID string) (*dto.UnitResponse, error) {
	unit, err := uc.unitRepo.GetByID(unitID, false)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	if in.Observations != nil {
		unit.Observations = *in.Observations
	}
	unit.Touch(actorRef(userID), time.Now())
	if err := uc.unitRepo.UpdateMetadata(unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// SoftDeleteUnit marca la unidad como eliminada. No recalcula saldos ni toca
// las particiones: quedan para consultas históricas. Una unidad eliminada
// rechaza cualquier corte posterior. Se toma el lock de la entidad para no
// cruzarse con un AddPartition en vuelo.
func (uc *UnitUseCase) SoftDeleteUnit(ctx context.Context, unitID, userID string) error {
	return runLocked(ctx, uc.locks, uc.lockRetries, "unit:"+unitID, func() error {
		unit, err := uc.unitRepo.GetByID(unitID, false)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrNotFound
		}
		unit.MarkDeleted(actorRef(userID), time.Now())
		return uc.unitRepo.SoftDelete(unit)
	})
}

// GetUnit devuelve una unidad con sus particiones. includeDeleted permite
// consultas de auditoría sobre unidades eliminadas.
func (uc *UnitUseCase) GetUnit(ctx context.Context, unitID string, includeDeleted bool) (*dto.UnitResponse, []dto.PartitionResponse, error) {
	unit, err := uc.unitRepo.GetByID(unitID, includeDeleted)
	if err != nil {
		return nil, nil, err
	}
	if unit == nil {
		return nil, nil, domain.ErrNotFound
	}
	partitions, err := uc.partRepo.ListByUnit(unitID)
	if err != nil {
		return nil, nil, err
	}
	items := make([]dto.PartitionResponse, 0, len(partitions))
	for _, p := range partitions {
		items = append(items, *toPartitionResponse(p))
	}
	return toUnitResponse(unit), items, nil
}

// ListUnits lista unidades. Por defecto solo las activas y vivas.
func (uc *UnitUseCase) ListUnits(ctx context.Context, onlyActive, includeDeleted bool, limit, offset int) ([]dto.UnitResponse, error) {
	units, err := uc.unitRepo.List(onlyActive, includeDeleted, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		items = append(items, *toUnitResponse(u))
	}
	return items, nil
}

// ListPartitions lista particiones (historial global de cortes).
func (uc *UnitUseCase) ListPartitions(ctx context.Context, limit, offset int) ([]dto.PartitionResponse, error) {
	partitions, err := uc.partRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartitionResponse, 0, len(partitions))
	for _, p := range partitions {
		items = append(items, *toPartitionResponse(p))
	}
	return items, nil
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	if u == nil {
		return nil
	}
	return &dto.UnitResponse{
		ID:            u.ID,
		ProductID:     u.ProductID,
		InitialWeight: u.InitialWeight,
		CurrentWeight: u.CurrentWeight,
		Active:        u.Active,
		ReasonID:      u.ReasonID,
		Observations:  u.Observations,
		CreatedBy:     u.CreatedBy,
		ModifiedBy:    u.ModifiedBy,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		DeletedAt:     u.DeletedAt,
	}
}

func toPartitionResponse(p *entity.Partition) *dto.PartitionResponse {
	if p == nil {
		return nil
	}
	return &dto.PartitionResponse{
		ID:           p.ID,
		UnitID:       p.UnitID,
		Weight:       p.Weight,
		WeightBefore: p.WeightBefore,
		WeightAfter:  p.WeightAfter,
		ReasonID:     p.ReasonID,
		Observations: p.Observations,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
