package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
)

// Fakes en memoria para probar el motor de ledger sin PostgreSQL. GetForUpdate
// devuelve una copia: las mutaciones solo persisten vía UpdateBalance, igual
// que con una fila real. El fakeTxRunner serializa las "transacciones" con un
// mutex, que es la garantía que da la base con SELECT FOR UPDATE.

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ── unidades ─────────────────────────────────────────────────────────────────

type fakeUnitRepo struct {
	mu    sync.Mutex
	units map[string]*entity.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[string]*entity.Unit)}
}

func cloneUnit(u *entity.Unit) *entity.Unit {
	cp := *u
	return &cp
}

func (r *fakeUnitRepo) Create(unit *entity.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[unit.ID] = cloneUnit(unit)
	return nil
}

func (r *fakeUnitRepo) GetByID(id string, includeDeleted bool) (*entity.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return nil, nil
	}
	if !includeDeleted && u.IsDeleted() {
		return nil, nil
	}
	return cloneUnit(u), nil
}

func (r *fakeUnitRepo) GetForUpdate(id string) (*entity.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return nil, nil
	}
	return cloneUnit(u), nil
}

func (r *fakeUnitRepo) UpdateBalance(unit *entity.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.units[unit.ID]; ok {
		stored.CurrentWeight = unit.CurrentWeight
		stored.Active = unit.Active
		stored.ModifiedBy = unit.ModifiedBy
		stored.UpdatedAt = unit.UpdatedAt
	}
	return nil
}

func (r *fakeUnitRepo) UpdateMetadata(unit *entity.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.units[unit.ID]; ok {
		stored.Observations = unit.Observations
		stored.ModifiedBy = unit.ModifiedBy
		stored.UpdatedAt = unit.UpdatedAt
	}
	return nil
}

func (r *fakeUnitRepo) SoftDelete(unit *entity.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.units[unit.ID]; ok {
		stored.DeletedAt = unit.DeletedAt
		stored.DeletedBy = unit.DeletedBy
		stored.UpdatedAt = unit.UpdatedAt
	}
	return nil
}

func (r *fakeUnitRepo) List(onlyActive, includeDeleted bool, limit, offset int) ([]*entity.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Unit
	for _, u := range r.units {
		if !includeDeleted && u.IsDeleted() {
			continue
		}
		if onlyActive && !u.Active {
			continue
		}
		list = append(list, cloneUnit(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeUnitRepo) CountActiveByProduct(productID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.units {
		if u.ProductID == productID && u.Active && !u.IsDeleted() {
			count++
		}
	}
	return count, nil
}

// ── particiones ──────────────────────────────────────────────────────────────

type fakePartitionRepo struct {
	mu         sync.Mutex
	partitions []*entity.Partition
}

func newFakePartitionRepo() *fakePartitionRepo {
	return &fakePartitionRepo{}
}

func clonePartition(p *entity.Partition) *entity.Partition {
	cp := *p
	return &cp
}

func (r *fakePartitionRepo) Create(partition *entity.Partition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partitions = append(r.partitions, clonePartition(partition))
	return nil
}

func (r *fakePartitionRepo) GetByID(id string) (*entity.Partition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partitions {
		if p.ID == id && !p.IsDeleted() {
			return clonePartition(p), nil
		}
	}
	return nil, nil
}

func (r *fakePartitionRepo) UpdateMetadata(partition *entity.Partition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partitions {
		if p.ID == partition.ID {
			p.ReasonID = partition.ReasonID
			p.Observations = partition.Observations
			p.ModifiedBy = partition.ModifiedBy
			p.UpdatedAt = partition.UpdatedAt
		}
	}
	return nil
}

func (r *fakePartitionRepo) ListByUnit(unitID string) ([]*entity.Partition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Partition
	for _, p := range r.partitions {
		if p.UnitID == unitID && !p.IsDeleted() {
			list = append(list, clonePartition(p))
		}
	}
	return list, nil
}

func (r *fakePartitionRepo) List(limit, offset int) ([]*entity.Partition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.Partition, 0, len(r.partitions))
	for _, p := range r.partitions {
		list = append(list, clonePartition(p))
	}
	return list, nil
}

// ── elementos ────────────────────────────────────────────────────────────────

type fakeElementRepo struct {
	mu       sync.Mutex
	elements map[string]*entity.Element
}

func newFakeElementRepo() *fakeElementRepo {
	return &fakeElementRepo{elements: make(map[string]*entity.Element)}
}

func cloneElement(e *entity.Element) *entity.Element {
	cp := *e
	return &cp
}

func (r *fakeElementRepo) Create(element *entity.Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements[element.ID] = cloneElement(element)
	return nil
}

func (r *fakeElementRepo) GetByID(id string, includeDeleted bool) (*entity.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elements[id]
	if !ok {
		return nil, nil
	}
	if !includeDeleted && e.IsDeleted() {
		return nil, nil
	}
	return cloneElement(e), nil
}

func (r *fakeElementRepo) GetForUpdate(id string) (*entity.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elements[id]
	if !ok {
		return nil, nil
	}
	return cloneElement(e), nil
}

func (r *fakeElementRepo) GetByName(name string) (*entity.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.elements {
		if e.Name == name { // incluye eliminados, como el repo real
			return cloneElement(e), nil
		}
	}
	return nil, nil
}

func (r *fakeElementRepo) UpdateBalance(element *entity.Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.elements[element.ID]; ok {
		stored.CurrentQuantity = element.CurrentQuantity
		stored.TotalIngested = element.TotalIngested
		stored.Active = element.Active
		stored.ModifiedBy = element.ModifiedBy
		stored.UpdatedAt = element.UpdatedAt
	}
	return nil
}

func (r *fakeElementRepo) UpdateMetadata(element *entity.Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.elements[element.ID]; ok {
		stored.Description = element.Description
		stored.MinimumQuantity = element.MinimumQuantity
		stored.Location = element.Location
		stored.Observations = element.Observations
		stored.ModifiedBy = element.ModifiedBy
		stored.UpdatedAt = element.UpdatedAt
	}
	return nil
}

func (r *fakeElementRepo) SoftDelete(element *entity.Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.elements[element.ID]; ok {
		stored.DeletedAt = element.DeletedAt
		stored.DeletedBy = element.DeletedBy
		stored.UpdatedAt = element.UpdatedAt
	}
	return nil
}

func (r *fakeElementRepo) List(includeDeleted bool, limit, offset int) ([]*entity.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Element
	for _, e := range r.elements {
		if !includeDeleted && e.IsDeleted() {
			continue
		}
		list = append(list, cloneElement(e))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeElementRepo) ListBelowThreshold() ([]*entity.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Element
	for _, e := range r.elements {
		if e.IsDeleted() {
			continue
		}
		if e.MinimumQuantity.IsPositive() && e.CurrentQuantity.LessThanOrEqual(e.MinimumQuantity) {
			list = append(list, cloneElement(e))
		}
	}
	return list, nil
}

func (r *fakeElementRepo) CountByType(elementTypeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, e := range r.elements {
		if e.ElementTypeID == elementTypeID && !e.IsDeleted() {
			count++
		}
	}
	return count, nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	return &cp
}

func (r *fakeMovementRepo) Create(movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, cloneMovement(movement))
	return nil
}

func (r *fakeMovementRepo) ListByElement(elementID string, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	asc, _ := r.ListByElementAsc(elementID)
	var filtered []*entity.StockMovement
	for _, m := range asc {
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.From != nil && m.RecordedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.RecordedAt.After(*filter.To) {
			continue
		}
		filtered = append(filtered, m)
	}
	// Más recientes primero, como el repo real.
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered, nil
}

func (r *fakeMovementRepo) ListByElementAsc(elementID string) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.movements {
		if m.ElementID == elementID {
			list = append(list, cloneMovement(m))
		}
	}
	return list, nil
}

// ── catálogos ────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) seed(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id] = &entity.Product{ID: id, Name: name, PLU: "plu-" + id}
}

func (r *fakeProductRepo) Create(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(id string, includeDeleted bool) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || (!includeDeleted && p.IsDeleted()) {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByPLU(plu string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.PLU == plu {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(product *entity.Product) error { return nil }

func (r *fakeProductRepo) SoftDelete(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.products[product.ID]; ok {
		stored.DeletedAt = product.DeletedAt
	}
	return nil
}

func (r *fakeProductRepo) List(includeDeleted bool, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		if !includeDeleted && p.IsDeleted() {
			continue
		}
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeProductRepo) CountByType(productTypeID string) (int, error) { return 0, nil }

type fakeReasonRepo struct {
	mu      sync.Mutex
	reasons map[string]*entity.Reason
}

func newFakeReasonRepo() *fakeReasonRepo {
	return &fakeReasonRepo{reasons: make(map[string]*entity.Reason)}
}

func (r *fakeReasonRepo) seed(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons[id] = &entity.Reason{ID: id, Name: name, Active: true, CreatedAt: time.Now()}
}

func (r *fakeReasonRepo) Create(reason *entity.Reason) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons[reason.ID] = reason
	return nil
}

func (r *fakeReasonRepo) GetByID(id string) (*entity.Reason, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reason, ok := r.reasons[id]
	if !ok {
		return nil, nil
	}
	cp := *reason
	return &cp, nil
}

func (r *fakeReasonRepo) GetByName(name string) (*entity.Reason, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reason := range r.reasons {
		if reason.Name == name {
			cp := *reason
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReasonRepo) List(onlyActive bool) ([]*entity.Reason, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Reason
	for _, reason := range r.reasons {
		if onlyActive && !reason.Active {
			continue
		}
		cp := *reason
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeReasonRepo) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason, ok := r.reasons[id]; ok {
		reason.Active = active
	}
	return nil
}

type fakeElementTypeRepo struct {
	mu    sync.Mutex
	types map[string]*entity.ElementType
}

func newFakeElementTypeRepo() *fakeElementTypeRepo {
	return &fakeElementTypeRepo{types: make(map[string]*entity.ElementType)}
}

func (r *fakeElementTypeRepo) seed(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[id] = &entity.ElementType{ID: id, Name: name, TracksStock: true, Active: true}
}

func (r *fakeElementTypeRepo) Create(et *entity.ElementType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[et.ID] = et
	return nil
}

func (r *fakeElementTypeRepo) GetByID(id string) (*entity.ElementType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	et, ok := r.types[id]
	if !ok {
		return nil, nil
	}
	cp := *et
	return &cp, nil
}

func (r *fakeElementTypeRepo) GetByName(name string) (*entity.ElementType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, et := range r.types {
		if et.Name == name {
			cp := *et
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeElementTypeRepo) Update(et *entity.ElementType) error { return nil }

func (r *fakeElementTypeRepo) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if et, ok := r.types[id]; ok {
		et.Active = active
	}
	return nil
}

func (r *fakeElementTypeRepo) List(onlyActive bool) ([]*entity.ElementType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.ElementType
	for _, et := range r.types {
		if onlyActive && !et.Active {
			continue
		}
		cp := *et
		list = append(list, &cp)
	}
	return list, nil
}

// ── tx runner ────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	mu         sync.Mutex
	units      *fakeUnitRepo
	partitions *fakePartitionRepo
	elements   *fakeElementRepo
	movements  *fakeMovementRepo
}

func (r *fakeTxRunner) RunUnits(ctx context.Context, fn func(
	unitRepo repository.UnitRepository,
	partitionRepo repository.PartitionRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.units, r.partitions)
}

func (r *fakeTxRunner) RunElements(ctx context.Context, fn func(
	elementRepo repository.ElementRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.elements, r.movements)
}
