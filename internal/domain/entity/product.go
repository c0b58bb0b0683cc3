package entity

import "github.com/shopspring/decimal"

// Product representa un producto vendible (queso). Las unidades físicas en
// inventario se manejan como Unit; aquí solo va el catálogo.
type Product struct {
	ID            string
	Name          string
	PLU           string // código de balanza, único
	ProductTypeID string
	SoldByUnit    bool
	PricePerKilo  *decimal.Decimal
	Audit
}
