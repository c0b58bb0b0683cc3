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

// ElementUseCase motor del ledger de elementos consumibles: stock por conteo
// con ingresos, egresos y ajustes. Cada operación bloquea la entidad
// (keymutex + SELECT FOR UPDATE), actualiza el saldo y agrega exactamente un
// movimiento con snapshot antes/después, todo en una transacción.
type ElementUseCase struct {
	txRunner    TxRunner
	elemRepo    repository.ElementRepository
	movRepo     repository.StockMovementRepository
	typeRepo    repository.ElementTypeRepository
	reasonRepo  repository.ReasonRepository
	locks       *keymutex.KeyMutex
	lockRetries int
}

// NewElementUseCase construye el caso de uso.
func NewElementUseCase(
	txRunner TxRunner,
	elemRepo repository.ElementRepository,
	movRepo repository.StockMovementRepository,
	typeRepo repository.ElementTypeRepository,
	reasonRepo repository.ReasonRepository,
	locks *keymutex.KeyMutex,
	lockRetries int,
) *ElementUseCase {
	if lockRetries < 0 {
		lockRetries = 0
	}
	return &ElementUseCase{
		txRunner:    txRunner,
		elemRepo:    elemRepo,
		movRepo:     movRepo,
		typeRepo:    typeRepo,
		reasonRepo:  reasonRepo,
		locks:       locks,
		lockRetries: lockRetries,
	}
}

// Create da de alta un elemento. El nombre es único incluso contra eliminados,
// para no reutilizar en silencio una identidad lógica borrada. La cantidad
// inicial puede ser 0; si es positiva se registra el movimiento génesis de
// ingreso (stockAnterior 0) en la misma transacción que el alta.
func (uc *ElementUseCase) Create(ctx context.Context, in dto.CreateElementRequest, userID string) (*dto.ElementResponse, error) {
	qty := domledger.Normalize(in.InitialQuantity)
	if qty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	minimum := domledger.Normalize(in.MinimumQuantity)
	if minimum.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	et, err := uc.typeRepo.GetByID(in.ElementTypeID)
	if err != nil {
		return nil, err
	}
	if et == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.elemRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	actor := actorRef(userID)
	element := &entity.Element{
		ID:              uuid.New().String(),
		ElementTypeID:   in.ElementTypeID,
		Name:            in.Name,
		Description:     in.Description,
		CurrentQuantity: qty,
		MinimumQuantity: minimum,
		TotalIngested:   qty,
		Location:        in.Location,
		Observations:    in.Observations,
		Active:          true,
		Audit: entity.Audit{
			CreatedBy: actor,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	err = uc.txRunner.RunElements(ctx, func(
		elemRepo repository.ElementRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := elemRepo.Create(element); err != nil {
			return err
		}
		if qty.IsPositive() {
			genesis := &entity.StockMovement{
				ID:             uuid.New().String(),
				ElementID:      element.ID,
				Kind:           entity.MovementIngress,
				Quantity:       qty,
				QuantityBefore: decimal.Zero,
				QuantityAfter:  qty,
				Observations:   "Stock inicial",
				CreatedBy:      actor,
				RecordedAt:     now,
				CreatedAt:      now,
			}
			return movRepo.Create(genesis)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toElementResponse(element), nil
}

// RegisterIngress suma stock. Cantidad > 0; acumula en TotalIngested y
// reactiva el elemento si había quedado inactivo por agotamiento.
func (uc *ElementUseCase) RegisterIngress(ctx context.Context, elementID string, in dto.IngressRequest, userID string) (*dto.MovementResult, error) {
	qty := domledger.Normalize(in.Quantity)
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.applyMovement(ctx, elementID, func(element *entity.Element, now time.Time) (*entity.StockMovement, error) {
		before := element.CurrentQuantity
		element.CurrentQuantity = before.Add(qty)
		element.TotalIngested = element.TotalIngested.Add(qty)
		element.Active = true
		return &entity.StockMovement{
			Kind:           entity.MovementIngress,
			Quantity:       qty,
			QuantityBefore: before,
			QuantityAfter:  element.CurrentQuantity,
			Reference:      in.Reference,
			Observations:   in.Observations,
		}, nil
	}, userID)
}

// RegisterEgress resta stock. Cantidad > 0 y motivo obligatorio (a diferencia
// de las particiones, donde es opcional: regla de negocio deliberada). Falla
// con ErrInsufficientStock si la cantidad supera el saldo; si el saldo queda
// exactamente en 0 el elemento se desactiva.
func (uc *ElementUseCase) RegisterEgress(ctx context.Context, elementID string, in dto.EgressRequest, userID string) (*dto.MovementResult, error) {
	qty := domledger.Normalize(in.Quantity)
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.ReasonID == "" {
		return nil, domain.ErrInvalidInput
	}
	reason, err := uc.reasonRepo.GetByID(in.ReasonID)
	if err != nil {
		return nil, err
	}
	if reason == nil {
		return nil, domain.ErrNotFound
	}

	reasonID := in.ReasonID
	return uc.applyMovement(ctx, elementID, func(element *entity.Element, now time.Time) (*entity.StockMovement, error) {
		if element.CurrentQuantity.LessThan(qty) {
			return nil, domain.ErrInsufficientStock
		}
		before := element.CurrentQuantity
		element.CurrentQuantity = before.Sub(qty)
		if element.CurrentQuantity.IsZero() {
			element.Active = false
		}
		return &entity.StockMovement{
			Kind:           entity.MovementEgress,
			Quantity:       qty,
			QuantityBefore: before,
			QuantityAfter:  element.CurrentQuantity,
			ReasonID:       &reasonID,
			Reference:      in.Reference,
			Observations:   in.Observations,
		}, nil
	}, userID)
}

// RegisterAdjustment corrige el stock con un delta con signo distinto de 0.
// El movimiento guarda |delta|; el sentido queda en los snapshots. Un delta
// positivo también acumula en TotalIngested. Falla con ErrNegativeResult si
// el resultado quedaría negativo. No reactiva: eso es exclusivo del ingreso.
func (uc *ElementUseCase) RegisterAdjustment(ctx context.Context, elementID string, in dto.AdjustmentRequest, userID string) (*dto.MovementResult, error) {
	delta := domledger.Normalize(in.Delta)
	if delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	observations := in.Reason
	if in.Observations != "" {
		observations += " - " + in.Observations
	}

	return uc.applyMovement(ctx, elementID, func(element *entity.Element, now time.Time) (*entity.StockMovement, error) {
		before := element.CurrentQuantity
		after := before.Add(delta)
		if after.IsNegative() {
			return nil, domain.ErrNegativeResult
		}
		element.CurrentQuantity = after
		if delta.IsPositive() {
			element.TotalIngested = element.TotalIngested.Add(delta)
		}
		return &entity.StockMovement{
			Kind:           entity.MovementAdjustment,
			Quantity:       delta.Abs(),
			QuantityBefore: before,
			QuantityAfter:  after,
			Observations:   observations,
		}, nil
	}, userID)
}

// applyMovement secuencia común de toda mutación de saldo: lock por entidad,
// transacción, lectura con bloqueo de fila, validación, escritura del saldo y
// append del movimiento. Una entidad eliminada rechaza cualquier mutación.
func (uc *ElementUseCase) applyMovement(
	ctx context.Context,
	elementID string,
	mutate func(element *entity.Element, now time.Time) (*entity.StockMovement, error),
	userID string,
) (*dto.MovementResult, error) {
	var out *dto.MovementResult
	err := runLocked(ctx, uc.locks, uc.lockRetries, "element:"+elementID, func() error {
		return uc.txRunner.RunElements(ctx, func(
			elemRepo repository.ElementRepository,
			movRepo repository.StockMovementRepository,
		) error {
			element, err := elemRepo.GetForUpdate(elementID)
			if err != nil {
				return err
			}
			if element == nil {
				return domain.ErrNotFound
			}
			if element.IsDeleted() {
				return domain.ErrDeleted
			}

			now := time.Now()
			movement, err := mutate(element, now)
			if err != nil {
				return err
			}
			element.UpdatedAt = now

			movement.ID = uuid.New().String()
			movement.ElementID = element.ID
			movement.CreatedBy = actorRef(userID)
			movement.RecordedAt = now
			movement.CreatedAt = now

			if err := elemRepo.UpdateBalance(element); err != nil {
				return err
			}
			if err := movRepo.Create(movement); err != nil {
				return err
			}
			out = &dto.MovementResult{
				Element:  *toElementResponse(element),
				Movement: *toMovementResponse(movement),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetMovementHistory devuelve el historial del elemento, más reciente primero,
// con filtros opcionales de tipo y rango de fechas. Incluye elementos
// eliminados: la historia es consultable para auditoría.
func (uc *ElementUseCase) GetMovementHistory(ctx context.Context, elementID string, filter repository.MovementFilter, limit, offset int) ([]dto.MovementResponse, error) {
	element, err := uc.elemRepo.GetByID(elementID, true)
	if err != nil {
		return nil, err
	}
	if element == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movRepo.ListByElement(elementID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, *toMovementResponse(m))
	}
	return items, nil
}

// VerifyConsistency reproduce todos los movimientos del elemento desde el
// génesis y compara con el saldo almacenado. Devuelve error si el replay no
// cierra exacto: herramienta de auditoría, no muta nada.
func (uc *ElementUseCase) VerifyConsistency(ctx context.Context, elementID string) error {
	element, err := uc.elemRepo.GetByID(elementID, true)
	if err != nil {
		return err
	}
	if element == nil {
		return domain.ErrNotFound
	}
	movements, err := uc.movRepo.ListByElementAsc(elementID)
	if err != nil {
		return err
	}
	final, err := domledger.Replay(decimal.Zero, movements)
	if err != nil {
		return err
	}
	if !final.Equal(element.CurrentQuantity) {
		return domain.ErrInvalidInput
	}
	return nil
}

// UpdateMetadata actualiza stock mínimo, ubicación u observaciones. No toca
// el saldo: el stock solo se mueve por ingreso/egreso/ajuste.
func (uc *ElementUseCase) UpdateMetadata(ctx context.Context, elementID string, in dto.UpdateElementRequest, userID string) (*dto.ElementResponse, error) {
	element, err := uc.elemRepo.GetByID(elementID, false)
	if err != nil {
		return nil, err
	}
	if element == nil {
		return nil, domain.ErrNotFound
	}
	if in.MinimumQuantity != nil {
		minimum := domledger.Normalize(*in.MinimumQuantity)
		if minimum.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		element.MinimumQuantity = minimum
	}
	if in.Location != nil {
		element.Location = *in.Location
	}
	if in.Observations != nil {
		element.Observations = *in.Observations
	}
	element.Touch(actorRef(userID), time.Now())
	if err := uc.elemRepo.UpdateMetadata(element); err != nil {
		return nil, err
	}
	return toElementResponse(element), nil
}

// SoftDelete marca el elemento como eliminado: el saldo queda congelado y
// toda mutación posterior falla con ErrDeleted. Los movimientos quedan para
// consultas históricas.
func (uc *ElementUseCase) SoftDelete(ctx context.Context, elementID, userID string) error {
	return runLocked(ctx, uc.locks, uc.lockRetries, "element:"+elementID, func() error {
		element, err := uc.elemRepo.GetByID(elementID, false)
		if err != nil {
			return err
		}
		if element == nil {
			return domain.ErrNotFound
		}
		element.MarkDeleted(actorRef(userID), time.Now())
		return uc.elemRepo.SoftDelete(element)
	})
}

// Get devuelve un elemento por id.
func (uc *ElementUseCase) Get(ctx context.Context, elementID string, includeDeleted bool) (*dto.ElementResponse, error) {
	element, err := uc.elemRepo.GetByID(elementID, includeDeleted)
	if err != nil {
		return nil, err
	}
	if element == nil {
		return nil, domain.ErrNotFound
	}
	return toElementResponse(element), nil
}

// List lista elementos vivos (o todos con includeDeleted).
func (uc *ElementUseCase) List(ctx context.Context, includeDeleted bool, limit, offset int) ([]dto.ElementResponse, error) {
	elements, err := uc.elemRepo.List(includeDeleted, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ElementResponse, 0, len(elements))
	for _, e := range elements {
		items = append(items, *toElementResponse(e))
	}
	return items, nil
}

// ListBelowThreshold lista los elementos en o por debajo de su stock mínimo,
// para el reporte de reposición.
func (uc *ElementUseCase) ListBelowThreshold(ctx context.Context) ([]dto.ElementResponse, error) {
	elements, err := uc.elemRepo.ListBelowThreshold()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ElementResponse, 0, len(elements))
	for _, e := range elements {
		items = append(items, *toElementResponse(e))
	}
	return items, nil
}

func toElementResponse(e *entity.Element) *dto.ElementResponse {
	if e == nil {
		return nil
	}
	return &dto.ElementResponse{
		ID:              e.ID,
		ElementTypeID:   e.ElementTypeID,
		Name:            e.Name,
		Description:     e.Description,
		CurrentQuantity: e.CurrentQuantity,
		MinimumQuantity: e.MinimumQuantity,
		TotalIngested:   e.TotalIngested,
		Location:        e.Location,
		Observations:    e.Observations,
		Active:          e.Active,
		BelowThreshold:  domledger.IsBelowThreshold(e),
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		DeletedAt:       e.DeletedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:             m.ID,
		ElementID:      m.ElementID,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReasonID:       m.ReasonID,
		Reference:      m.Reference,
		Observations:   m.Observations,
		CreatedBy:      m.CreatedBy,
		RecordedAt:     m.RecordedAt,
	}
}
