package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

// ProductTypeUseCase CRUD de tipos de producto.
type ProductTypeUseCase struct {
	repo        repository.ProductTypeRepository
	productRepo repository.ProductRepository
}

// NewProductTypeUseCase construye el caso de uso.
func NewProductTypeUseCase(repo repository.ProductTypeRepository, productRepo repository.ProductRepository) *ProductTypeUseCase {
	return &ProductTypeUseCase{repo: repo, productRepo: productRepo}
}

// Create crea un tipo de producto con nombre único.
func (uc *ProductTypeUseCase) Create(in dto.CreateProductTypeRequest, userID string) (*dto.ProductTypeResponse, error) {
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	pt := &entity.ProductType{
		ID:   uuid.New().String(),
		Name: in.Name,
		Audit: entity.Audit{
			CreatedBy: actorRef(userID),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := uc.repo.Create(pt); err != nil {
		return nil, err
	}
	return toProductTypeResponse(pt), nil
}

// Update renombra un tipo de producto.
func (uc *ProductTypeUseCase) Update(id string, in dto.CreateProductTypeRequest, userID string) (*dto.ProductTypeResponse, error) {
	pt, err := uc.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, domain.ErrNotFound
	}
	other, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	pt.Name = in.Name
	pt.Touch(actorRef(userID), time.Now())
	if err := uc.repo.Update(pt); err != nil {
		return nil, err
	}
	return toProductTypeResponse(pt), nil
}

// List lista tipos de producto.
func (uc *ProductTypeUseCase) List(includeDeleted bool) ([]dto.ProductTypeResponse, error) {
	list, err := uc.repo.List(includeDeleted)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductTypeResponse, 0, len(list))
	for _, pt := range list {
		items = append(items, *toProductTypeResponse(pt))
	}
	return items, nil
}

// Delete hace soft delete. Rechazado si hay productos asociados.
func (uc *ProductTypeUseCase) Delete(id, userID string) error {
	pt, err := uc.repo.GetByID(id, false)
	if err != nil {
		return err
	}
	if pt == nil {
		return domain.ErrNotFound
	}
	count, err := uc.productRepo.CountByType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d producto(s) asociado(s)", domain.ErrHasDependencies, count)
	}
	pt.MarkDeleted(actorRef(userID), time.Now())
	return uc.repo.SoftDelete(pt)
}

func toProductTypeResponse(pt *entity.ProductType) *dto.ProductTypeResponse {
	if pt == nil {
		return nil
	}
	return &dto.ProductTypeResponse{
		ID:        pt.ID,
		Name:      pt.Name,
		CreatedAt: pt.CreatedAt,
		UpdatedAt: pt.UpdatedAt,
	}
}
