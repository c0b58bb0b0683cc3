package entity

// ElementType clasificación de elementos consumibles.
// Ej.: "Pallet madera", "Caja cartón", "Herramienta".
type ElementType struct {
	ID          string
	Name        string // único
	UnitMeasure string // "unidades", "metros", "kg"
	Category    string // "Embalaje", "Herramienta", "Insumo"
	Description string
	TracksStock bool // si lleva control de stock o es único
	Active      bool
}
