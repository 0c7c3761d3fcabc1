package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places stored for a price.
const PriceScale = 2

// Product represents a product in the catalog.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string          `json:"name" gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null" swaggertype:"number"`
	Availability bool            `json:"availability" gorm:"not null"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProductRequest is the body accepted by the create and update endpoints.
// Field types are checked by the route validators before it is decoded.
type ProductRequest struct {
	Name         string          `json:"name" example:"Monitor 40 inch"`
	Price        decimal.Decimal `json:"price" swaggertype:"number" example:"250"`
	Availability *bool           `json:"availability,omitempty" example:"true"`
}

// NewProduct builds a product from a request. Availability defaults to true.
func NewProduct(req ProductRequest) *Product {
	p := &Product{Availability: true}
	p.Apply(req)
	return p
}

// Apply overwrites the mutable fields of p with the request values. The
// price is rounded to PriceScale places so it matches what the column keeps.
// Availability is left untouched when the request omits it.
func (p *Product) Apply(req ProductRequest) {
	p.Name = req.Name
	p.Price = req.Price.Round(PriceScale)
	if req.Availability != nil {
		p.Availability = *req.Availability
	}
}
