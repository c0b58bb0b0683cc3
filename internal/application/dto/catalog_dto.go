package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=100"`
	PLU           string           `json:"plu" validate:"required,min=1,max=20"`
	ProductTypeID string           `json:"product_type_id" validate:"required,uuid"`
	SoldByUnit    bool             `json:"sold_by_unit"`
	PricePerKilo  *decimal.Decimal `json:"price_per_kilo"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=100"`
	ProductTypeID *string          `json:"product_type_id" validate:"omitempty,uuid"`
	SoldByUnit    *bool            `json:"sold_by_unit"`
	PricePerKilo  *decimal.Decimal `json:"price_per_kilo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	PLU           string           `json:"plu"`
	ProductTypeID string           `json:"product_type_id"`
	SoldByUnit    bool             `json:"sold_by_unit"`
	PricePerKilo  *decimal.Decimal `json:"price_per_kilo,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreateProductTypeRequest body para POST /api/product-types.
type CreateProductTypeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ProductTypeResponse salida de un tipo de producto.
type ProductTypeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateElementTypeRequest body para POST /api/element-types.
type CreateElementTypeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	UnitMeasure string `json:"unit_measure" validate:"omitempty,max=50"`
	Category    string `json:"category" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
	TracksStock *bool  `json:"tracks_stock"`
}

// ElementTypeResponse salida de un tipo de elemento.
type ElementTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	UnitMeasure string `json:"unit_measure,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	TracksStock bool   `json:"tracks_stock"`
	Active      bool   `json:"active"`
}

// CreateReasonRequest body para POST /api/reasons.
type CreateReasonRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// ReasonResponse salida de un motivo.
type ReasonResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// LowStockAlert alerta de stock bajo para el tablero.
type LowStockAlert struct {
	Kind     string          `json:"kind"`     // stock_bajo
	Priority string          `json:"priority"` // baja, media, alta
	Message  string          `json:"message"`
	Current  decimal.Decimal `json:"current"`
	Minimum  decimal.Decimal `json:"minimum"`
	EntityID string          `json:"entity_id"`
}
