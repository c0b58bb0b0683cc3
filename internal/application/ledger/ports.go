package ledger

import (
	"context"

	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/repository"
	"github.com/quesarte/queseria-api/pkg/keymutex"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización de saldo y el
// append del movimiento se escriban como una unidad indivisible: si fn falla
// o el caller cancela, todo se revierte junto.
type TxRunner interface {
	RunUnits(ctx context.Context, fn func(
		unitRepo repository.UnitRepository,
		partitionRepo repository.PartitionRepository,
	) error) error

	RunElements(ctx context.Context, fn func(
		elementRepo repository.ElementRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// runLocked serializa una mutación de saldo sobre la identidad de la entidad:
// adquiere el lock por clave con espera acotada y unos pocos reintentos, y si
// la contención persiste devuelve ErrLockTimeout para que el caller reintente.
// Claves distintas nunca se bloquean entre sí.
func runLocked(ctx context.Context, locks *keymutex.KeyMutex, retries int, key string, fn func() error) error {
	for attempt := 0; attempt <= retries; attempt++ {
		if !locks.Lock(ctx, key) {
			// Un contexto cancelado no es contención: se propaga tal cual
			// en lugar de quemar reintentos y disfrazarlo de timeout.
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		err := fn()
		locks.Unlock(key)
		return err
	}
	return domain.ErrLockTimeout
}

// actorRef convierte el userID del request en la referencia de auditoría.
// Operaciones de sistema (seed) no llevan actor: nil, nunca un usuario fabricado.
func actorRef(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
