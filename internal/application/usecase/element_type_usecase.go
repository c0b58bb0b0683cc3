package usecase

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

// ElementTypeUseCase CRUD de tipos de elemento consumible.
type ElementTypeUseCase struct {
	repo     repository.ElementTypeRepository
	elemRepo repository.ElementRepository
}

// NewElementTypeUseCase construye el caso de uso.
func NewElementTypeUseCase(repo repository.ElementTypeRepository, elemRepo repository.ElementRepository) *ElementTypeUseCase {
	return &ElementTypeUseCase{repo: repo, elemRepo: elemRepo}
}

// Create crea un tipo de elemento con nombre único.
func (uc *ElementTypeUseCase) Create(in dto.CreateElementTypeRequest) (*dto.ElementTypeResponse, error) {
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	tracksStock := true
	if in.TracksStock != nil {
		tracksStock = *in.TracksStock
	}
	et := &entity.ElementType{
		ID:          uuid.New().String(),
		Name:        in.Name,
		UnitMeasure: in.UnitMeasure,
		Category:    in.Category,
		Description: in.Description,
		TracksStock: tracksStock,
		Active:      true,
	}
	if err := uc.repo.Create(et); err != nil {
		return nil, err
	}
	return toElementTypeResponse(et), nil
}

// Update actualiza un tipo de elemento.
func (uc *ElementTypeUseCase) Update(id string, in dto.CreateElementTypeRequest) (*dto.ElementTypeResponse, error) {
	et, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if et == nil {
		return nil, domain.ErrNotFound
	}
	other, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	et.Name = in.Name
	et.UnitMeasure = in.UnitMeasure
	et.Category = in.Category
	et.Description = in.Description
	if in.TracksStock != nil {
		et.TracksStock = *in.TracksStock
	}
	if err := uc.repo.Update(et); err != nil {
		return nil, err
	}
	return toElementTypeResponse(et), nil
}

// List lista tipos de elemento.
func (uc *ElementTypeUseCase) List(onlyActive bool) ([]dto.ElementTypeResponse, error) {
	list, err := uc.repo.List(onlyActive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ElementTypeResponse, 0, len(list))
	for _, et := range list {
		items = append(items, *toElementTypeResponse(et))
	}
	return items, nil
}

// Deactivate desactiva un tipo de elemento. Rechazado si hay elementos que lo usan.
func (uc *ElementTypeUseCase) Deactivate(id string) error {
	et, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if et == nil {
		return domain.ErrNotFound
	}
	count, err := uc.elemRepo.CountByType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d elemento(s) con este tipo", domain.ErrHasDependencies, count)
	}
	return uc.repo.SetActive(id, false)
}

func toElementTypeResponse(et *entity.ElementType) *dto.ElementTypeResponse {
	if et == nil {
		return nil
	}
	return &dto.ElementTypeResponse{
		ID:          et.ID,
		Name:        et.Name,
		UnitMeasure: et.UnitMeasure,
		Category:    et.Category,
		Description: et.Description,
		TracksStock: et.TracksStock,
		Active:      et.Active,
	}
}
