package entity

import "time"

// Reason motivo categórico de un movimiento (venta, merma, cata, etc.).
// Obligatorio en egresos del ledger de elementos; opcional en particiones.
type Reason struct {
	ID          string
	Name        string // único
	Description string
	Active      bool
	CreatedAt   time.Time
}
