package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

// Motivos predefinidos que se siembran al arrancar si no existen.
var defaultReasons = []struct {
	Name        string
	Description string
}{
	{"Venta", "Venta normal al cliente"},
	{"Cata", "Degustación o prueba de producto"},
	{"Tabla", "Uso en tablas de quesos"},
	{"Publicidad", "Marketing y promoción"},
	{"Merma", "Pérdida de producto por deterioro"},
	{"Consumo Interno", "Uso del personal"},
	{"Cortesía", "Regalo o atención especial"},
	{"Muestreo", "Muestras gratis para clientes"},
	{"Evento", "Uso en eventos especiales"},
	{"Otros", "Otros motivos no especificados"},
}

// ReasonUseCase catálogo de motivos de movimiento.
type ReasonUseCase struct {
	repo repository.ReasonRepository
}

// NewReasonUseCase construye el caso de uso.
func NewReasonUseCase(repo repository.ReasonRepository) *ReasonUseCase {
	return &ReasonUseCase{repo: repo}
}

// Create crea un motivo con nombre único.
func (uc *ReasonUseCase) Create(in dto.CreateReasonRequest) (*dto.ReasonResponse, error) {
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	reason := &entity.Reason{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(reason); err != nil {
		return nil, err
	}
	return toReasonResponse(reason), nil
}

// List lista motivos (por defecto solo activos).
func (uc *ReasonUseCase) List(onlyActive bool) ([]dto.ReasonResponse, error) {
	list, err := uc.repo.List(onlyActive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReasonResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReasonResponse(r))
	}
	return items, nil
}

// Deactivate desactiva un motivo. Los movimientos históricos que lo
// referencian no se tocan.
func (uc *ReasonUseCase) Deactivate(id string) error {
	reason, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if reason == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(id, false)
}

// Seed siembra los motivos predefinidos que falten. Operación de sistema:
// sin actor. Devuelve cuántos se crearon.
func (uc *ReasonUseCase) Seed() (int, error) {
	created := 0
	for _, def := range defaultReasons {
		existing, err := uc.repo.GetByName(def.Name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		reason := &entity.Reason{
			ID:          uuid.New().String(),
			Name:        def.Name,
			Description: def.Description,
			Active:      true,
			CreatedAt:   time.Now(),
		}
		if err := uc.repo.Create(reason); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func toReasonResponse(r *entity.Reason) *dto.ReasonResponse {
	if r == nil {
		return nil
	}
	return &dto.ReasonResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}
