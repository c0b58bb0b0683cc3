package usecase

import (
	"fmt"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/domain/ledger"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

// AlertUseCase arma las alertas de stock bajo para el tablero. Solo lectura:
// nunca muta saldos ni dispara movimientos.
type AlertUseCase struct {
	elemRepo    repository.ElementRepository
	unitRepo    repository.UnitRepository
	productRepo repository.ProductRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(
	elemRepo repository.ElementRepository,
	unitRepo repository.UnitRepository,
	productRepo repository.ProductRepository,
) *AlertUseCase {
	return &AlertUseCase{elemRepo: elemRepo, unitRepo: unitRepo, productRepo: productRepo}
}

// LowStock devuelve los elementos en o por debajo de su mínimo configurado y
// los productos sin unidades activas en inventario.
func (uc *AlertUseCase) LowStock() ([]dto.LowStockAlert, error) {
	alerts := []dto.LowStockAlert{}

	elements, err := uc.elemRepo.ListBelowThreshold()
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		if !ledger.IsBelowThreshold(e) {
			continue
		}
		priority := "media"
		if e.CurrentQuantity.IsZero() {
			priority = "alta"
		}
		alerts = append(alerts, dto.LowStockAlert{
			Kind:     "stock_bajo",
			Priority: priority,
			Message:  fmt.Sprintf("%s: quedan %s (mínimo %s)", e.Name, e.CurrentQuantity.String(), e.MinimumQuantity.String()),
			Current:  e.CurrentQuantity,
			Minimum:  e.MinimumQuantity,
			EntityID: e.ID,
		})
	}

	// Límite explícito: el barrido de alertas no pagina.
	products, err := uc.productRepo.List(false, 1000, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		count, err := uc.unitRepo.CountActiveByProduct(p.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}
		alerts = append(alerts, dto.LowStockAlert{
			Kind:     "sin_unidades",
			Priority: "alta",
			Message:  fmt.Sprintf("%s: sin unidades activas en inventario", p.Name),
			EntityID: p.ID,
		})
	}

	return alerts, nil
}
