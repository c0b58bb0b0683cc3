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

// ProductUseCase CRUD de productos del catálogo. El stock físico se maneja
// como unidades (ledger); aquí no se toca ningún saldo.
type ProductUseCase struct {
	repo     repository.ProductRepository
	typeRepo repository.ProductTypeRepository
	unitRepo repository.UnitRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, typeRepo repository.ProductTypeRepository, unitRepo repository.UnitRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, typeRepo: typeRepo, unitRepo: unitRepo}
}

// Create crea un producto. El PLU es único.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest, userID string) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByPLU(in.PLU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	pt, err := uc.typeRepo.GetByID(in.ProductTypeID, false)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		PLU:           in.PLU,
		ProductTypeID: in.ProductTypeID,
		SoldByUnit:    in.SoldByUnit,
		PricePerKilo:  in.PricePerKilo,
		Audit: entity.Audit{
			CreatedBy: actorRef(userID),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto (no el PLU: identidad de balanza).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest, userID string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.ProductTypeID != nil {
		pt, err := uc.typeRepo.GetByID(*in.ProductTypeID, false)
		if err != nil {
			return nil, err
		}
		if pt == nil {
			return nil, domain.ErrNotFound
		}
		product.ProductTypeID = *in.ProductTypeID
	}
	if in.SoldByUnit != nil {
		product.SoldByUnit = *in.SoldByUnit
	}
	if in.PricePerKilo != nil {
		product.PricePerKilo = in.PricePerKilo
	}
	product.Touch(actorRef(userID), time.Now())
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(includeDeleted bool, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(includeDeleted, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete hace soft delete del producto. Si tiene unidades activas en
// inventario la eliminación se rechaza, y el error enumera cuántas bloquean.
func (uc *ProductUseCase) Delete(id, userID string) error {
	product, err := uc.repo.GetByID(id, false)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	active, err := uc.unitRepo.CountActiveByProduct(id)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d unidad(es) activa(s) en inventario", domain.ErrHasDependencies, active)
	}
	product.MarkDeleted(actorRef(userID), time.Now())
	return uc.repo.SoftDelete(product)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		PLU:           p.PLU,
		ProductTypeID: p.ProductTypeID,
		SoldByUnit:    p.SoldByUnit,
		PricePerKilo:  p.PricePerKilo,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// actorRef convierte userID en referencia de auditoría (nil para sistema).
func actorRef(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
