package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/application/ledger"
	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/domain/repository"
	"github.com/quesarte/queseria-api/pkg/keymutex"
)

const testElementTypeID = "44444444-4444-4444-4444-444444444444"

type elementFixture struct {
	uc        *ledger.ElementUseCase
	elements  *fakeElementRepo
	movements *fakeMovementRepo
	types     *fakeElementTypeRepo
	reasons   *fakeReasonRepo
}

func newElementFixture(t *testing.T) *elementFixture {
	t.Helper()
	elements := newFakeElementRepo()
	movements := newFakeMovementRepo()
	types := newFakeElementTypeRepo()
	reasons := newFakeReasonRepo()
	types.seed(testElementTypeID, "Pallet madera")
	reasons.seed(testReasonID, "Venta")

	tx := &fakeTxRunner{elements: elements, movements: movements}
	uc := ledger.NewElementUseCase(tx, elements, movements, types, reasons, keymutex.New(2*time.Second), 2)
	return &elementFixture{uc: uc, elements: elements, movements: movements, types: types, reasons: reasons}
}

func (f *elementFixture) mustCreate(t *testing.T, name, initial string) *dto.ElementResponse {
	t.Helper()
	element, err := f.uc.Create(context.Background(), dto.CreateElementRequest{
		ElementTypeID:   testElementTypeID,
		Name:            name,
		InitialQuantity: d(initial),
	}, testUserID)
	require.NoError(t, err)
	require.NotNil(t, element)
	return element
}

func TestCreateElement_RegistraGenesis(t *testing.T) {
	f := newElementFixture(t)

	element := f.mustCreate(t, "Pallet europeo", "10")

	assert.True(t, element.Active)
	assert.True(t, element.CurrentQuantity.Equal(d("10")))
	assert.True(t, element.TotalIngested.Equal(d("10")))

	movements, err := f.movements.ListByElementAsc(element.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1, "cantidad inicial positiva produce el movimiento génesis")
	genesis := movements[0]
	assert.Equal(t, entity.MovementIngress, genesis.Kind)
	assert.True(t, genesis.QuantityBefore.IsZero())
	assert.True(t, genesis.QuantityAfter.Equal(d("10")))
}

func TestCreateElement_SinStockInicial(t *testing.T) {
	f := newElementFixture(t)

	element := f.mustCreate(t, "Caja exportación", "0")

	assert.True(t, element.CurrentQuantity.IsZero())
	movements, err := f.movements.ListByElementAsc(element.ID)
	require.NoError(t, err)
	assert.Empty(t, movements, "cantidad inicial 0 no genera movimiento")
}

func TestCreateElement_NombreDuplicado(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "5")

	_, err := f.uc.Create(ctx, dto.CreateElementRequest{
		ElementTypeID: testElementTypeID, Name: "Pallet europeo", InitialQuantity: d("1"),
	}, testUserID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El nombre sigue reservado aunque el elemento esté eliminado.
	require.NoError(t, f.uc.SoftDelete(ctx, element.ID, testUserID))
	_, err = f.uc.Create(ctx, dto.CreateElementRequest{
		ElementTypeID: testElementTypeID, Name: "Pallet europeo", InitialQuantity: d("1"),
	}, testUserID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateElement_Invalidos(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreateElementRequest{
		ElementTypeID: testElementTypeID, Name: "x", InitialQuantity: d("-1"),
	}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, dto.CreateElementRequest{
		ElementTypeID: testElementTypeID, Name: "x", MinimumQuantity: d("-1"),
	}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, dto.CreateElementRequest{
		ElementTypeID: "99999999-9999-9999-9999-999999999999", Name: "x",
	}, testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterIngress(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	out, err := f.uc.RegisterIngress(ctx, element.ID, dto.IngressRequest{Quantity: d("5"), Reference: "FC-0001"}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.Equal(d("15")))
	assert.True(t, out.Element.TotalIngested.Equal(d("15")))
	assert.Equal(t, entity.MovementIngress, out.Movement.Kind)
	assert.True(t, out.Movement.QuantityBefore.Equal(d("10")))
	assert.True(t, out.Movement.QuantityAfter.Equal(d("15")))
	assert.Equal(t, "FC-0001", out.Movement.Reference)

	_, err = f.uc.RegisterIngress(ctx, element.ID, dto.IngressRequest{Quantity: d("0")}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RegisterIngress(ctx, element.ID, dto.IngressRequest{Quantity: d("-2")}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterIngress_ReactivaAgotado(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "3")

	out, err := f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("3"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)
	assert.False(t, out.Element.Active, "al llegar a 0 el elemento se desactiva")

	out, err = f.uc.RegisterIngress(ctx, element.ID, dto.IngressRequest{Quantity: d("2")}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.Active, "un ingreso reactiva el elemento agotado")
	assert.True(t, out.Element.CurrentQuantity.Equal(d("2")))
}

func TestRegisterEgress(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	out, err := f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("4"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.Equal(d("6")))
	assert.True(t, out.Element.TotalIngested.Equal(d("10")), "el egreso no toca el acumulado de ingresos")
	require.NotNil(t, out.Movement.ReasonID)
	assert.Equal(t, testReasonID, *out.Movement.ReasonID)

	// El motivo es obligatorio en egresos.
	_, err = f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("1")}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("1"), ReasonID: "99999999-9999-9999-9999-999999999999"}, testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Más que el saldo disponible: falla y no deja rastro.
	_, err = f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("7"), ReasonID: testReasonID}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	stored, err := f.elements.GetByID(element.ID, false)
	require.NoError(t, err)
	assert.True(t, stored.CurrentQuantity.Equal(d("6")))
}

func TestRegisterAdjustment(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	// Delta negativo: descuenta y guarda el valor absoluto.
	out, err := f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("-3"), Reason: "rotura en depósito"}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.Equal(d("7")))
	assert.Equal(t, entity.MovementAdjustment, out.Movement.Kind)
	assert.True(t, out.Movement.Quantity.Equal(d("3")))
	assert.True(t, out.Movement.QuantityBefore.Equal(d("10")))
	assert.True(t, out.Movement.QuantityAfter.Equal(d("7")))

	// Delta positivo: suma y acumula en TotalIngested.
	out, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("2"), Reason: "conteo físico"}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.Equal(d("9")))
	assert.True(t, out.Element.TotalIngested.Equal(d("12")))

	_, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("0"), Reason: "x"}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("1")}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el texto de motivo es obligatorio")
	_, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("-20"), Reason: "x"}, testUserID)
	assert.ErrorIs(t, err, domain.ErrNegativeResult)
}

func TestRegisterAdjustment_NoReactiva(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "5")

	_, err := f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("5"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)

	out, err := f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("3"), Reason: "conteo físico"}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.Equal(d("3")))
	assert.False(t, out.Element.Active, "reactivar es exclusivo del ingreso")
}

func TestCicloDesdeCero(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Caja exportación", "0")

	// Sin stock no hay nada que egresar.
	_, err := f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("5"), ReasonID: testReasonID}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	out, err := f.uc.RegisterIngress(ctx, element.ID, dto.IngressRequest{Quantity: d("5")}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.Equal(d("5")))

	out, err = f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("5"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)
	assert.True(t, out.Element.CurrentQuantity.IsZero())
	assert.False(t, out.Element.Active)
}

func TestRegisterAdjustment_FallidoNoDejaRastro(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "2")

	_, err := f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("-3"), Reason: "conteo físico"}, testUserID)
	assert.ErrorIs(t, err, domain.ErrNegativeResult)

	stored, err := f.elements.GetByID(element.ID, false)
	require.NoError(t, err)
	assert.True(t, stored.CurrentQuantity.Equal(d("2")), "el saldo no cambió")
	movements, err := f.movements.ListByElementAsc(element.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1, "solo el génesis: el ajuste fallido no se registró")
}

func TestMutacion_ElementoEliminado(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")
	require.NoError(t, f.uc.SoftDelete(ctx, element.ID, testUserID))

	_, err := f.uc.RegisterIngress(ctx, element.ID, dto.IngressRequest{Quantity: d("1")}, testUserID)
	assert.ErrorIs(t, err, domain.ErrDeleted)
	_, err = f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("1"), ReasonID: testReasonID}, testUserID)
	assert.ErrorIs(t, err, domain.ErrDeleted)
	_, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("1"), Reason: "x"}, testUserID)
	assert.ErrorIs(t, err, domain.ErrDeleted)

	// El saldo quedó congelado al momento del borrado.
	got, err := f.uc.Get(ctx, element.ID, true)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(d("10")))
}

func TestRegisterEgress_Concurrente(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	// Dos egresos de 7 sobre un stock de 10: exactamente uno entra.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("7"), ReasonID: testReasonID}, testUserID)
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, okCount)

	stored, err := f.elements.GetByID(element.ID, false)
	require.NoError(t, err)
	assert.True(t, stored.CurrentQuantity.Equal(d("3")))

	movements, err := f.movements.ListByElementAsc(element.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 2, "génesis más el único egreso que entró")
}

func TestGetMovementHistory(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	_, err := f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("4"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)
	_, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("-1"), Reason: "rotura"}, testUserID)
	require.NoError(t, err)

	all, err := f.uc.GetMovementHistory(ctx, element.ID, repository.MovementFilter{}, 100, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Más recientes primero.
	assert.Equal(t, entity.MovementAdjustment, all[0].Kind)
	assert.Equal(t, entity.MovementIngress, all[2].Kind)

	egresses, err := f.uc.GetMovementHistory(ctx, element.ID, repository.MovementFilter{Kind: entity.MovementEgress}, 100, 0)
	require.NoError(t, err)
	require.Len(t, egresses, 1)
	assert.True(t, egresses[0].Quantity.Equal(d("4")))

	_, err = f.uc.GetMovementHistory(ctx, "no-existe", repository.MovementFilter{}, 100, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La historia de un elemento eliminado sigue consultable.
	require.NoError(t, f.uc.SoftDelete(ctx, element.ID, testUserID))
	afterDelete, err := f.uc.GetMovementHistory(ctx, element.ID, repository.MovementFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, afterDelete, 3)
}

func TestVerifyConsistency(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	_, err := f.uc.RegisterEgress(ctx, element.ID, dto.EgressRequest{Quantity: d("4"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)
	_, err = f.uc.RegisterAdjustment(ctx, element.ID, dto.AdjustmentRequest{Delta: d("-2"), Reason: "rotura"}, testUserID)
	require.NoError(t, err)

	assert.NoError(t, f.uc.VerifyConsistency(ctx, element.ID))

	// Corromper el saldo almacenado hace fallar la verificación.
	f.elements.mu.Lock()
	f.elements.elements[element.ID].CurrentQuantity = d("99")
	f.elements.mu.Unlock()
	assert.Error(t, f.uc.VerifyConsistency(ctx, element.ID))
}

func TestUpdateElementMetadata(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()
	element := f.mustCreate(t, "Pallet europeo", "10")

	minimum := d("3")
	location := "depósito 2"
	updated, err := f.uc.UpdateMetadata(ctx, element.ID, dto.UpdateElementRequest{
		MinimumQuantity: &minimum,
		Location:        &location,
	}, testUserID)
	require.NoError(t, err)
	assert.True(t, updated.MinimumQuantity.Equal(d("3")))
	assert.Equal(t, "depósito 2", updated.Location)
	assert.True(t, updated.CurrentQuantity.Equal(d("10")), "los metadatos no tocan el saldo")

	negative := d("-1")
	_, err = f.uc.UpdateMetadata(ctx, element.ID, dto.UpdateElementRequest{MinimumQuantity: &negative}, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBelowThreshold(t *testing.T) {
	f := newElementFixture(t)
	ctx := context.Background()

	low := f.mustCreate(t, "Pallet europeo", "10")
	minimum := d("5")
	_, err := f.uc.UpdateMetadata(ctx, low.ID, dto.UpdateElementRequest{MinimumQuantity: &minimum}, testUserID)
	require.NoError(t, err)
	_, err = f.uc.RegisterEgress(ctx, low.ID, dto.EgressRequest{Quantity: d("6"), ReasonID: testReasonID}, testUserID)
	require.NoError(t, err)

	f.mustCreate(t, "Caja exportación", "100") // sin mínimo: nunca alerta

	alerts, err := f.uc.ListBelowThreshold(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, low.ID, alerts[0].ID)
	assert.True(t, alerts[0].BelowThreshold)
}
