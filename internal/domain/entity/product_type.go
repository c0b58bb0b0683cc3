package entity

// ProductType clasificación de productos (tipo de queso).
type ProductType struct {
	ID   string
	Name string // único
	Audit
}
