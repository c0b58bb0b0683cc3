package entity

import "github.com/shopspring/decimal"

// Partition representa un corte contra una Unit. El peso almacenado es siempre
// el efectivamente descontado (> 0); la convención "peso 0 = consumir el resto"
// se resuelve antes de persistir. WeightBefore/WeightAfter son la foto del
// saldo de la unidad al momento del corte y son inmutables.
type Partition struct {
	ID           string
	UnitID       string
	Weight       decimal.Decimal
	WeightBefore decimal.Decimal
	WeightAfter  decimal.Decimal
	ReasonID     *string // opcional en particiones
	Observations string
	Audit
}
