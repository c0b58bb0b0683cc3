package entity

import "github.com/shopspring/decimal"

// Element representa un elemento consumible con stock por conteo.
// CurrentQuantity solo lo mutan los casos de uso del ledger (ingreso, egreso,
// ajuste); TotalIngested es el acumulado histórico de todo lo ingresado y
// nunca decrece. Active pasa a false cuando el stock llega a 0 y un ingreso
// posterior lo reactiva.
type Element struct {
	ID              string
	ElementTypeID   string
	Name            string // único, incluso contra eliminados
	Description     string
	CurrentQuantity decimal.Decimal
	MinimumQuantity decimal.Decimal
	TotalIngested   decimal.Decimal
	Location        string
	Observations    string
	Active          bool
	Audit
}
