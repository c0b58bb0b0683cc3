package entity

import "github.com/shopspring/decimal"

// Unit representa una unidad física de producto (una horma) que ingresa con un
// peso inicial y se agota por particiones. Pesos en gramos con dos decimales.
// Invariante: 0 <= CurrentWeight <= InitialWeight. Active pasa a false
// exactamente cuando CurrentWeight llega a 0 y nunca se reactiva.
type Unit struct {
	ID            string
	ProductID     string
	InitialWeight decimal.Decimal
	CurrentWeight decimal.Decimal
	Active        bool
	ReasonID      string // motivo de ingreso, obligatorio
	Observations  string
	Audit
}

// IsDepleted indica si la unidad ya no tiene peso disponible.
func (u *Unit) IsDepleted() bool {
	return u.CurrentWeight.IsZero()
}
