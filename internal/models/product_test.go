package models_test

import (
	"testing"

	"productapi/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewProduct_DefaultsAvailability(t *testing.T) {
	p := models.NewProduct(models.ProductRequest{Name: "Monitor", Price: decimal.NewFromInt(400)})

	assert.Equal(t, "Monitor", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(400)))
	assert.True(t, p.Availability)
}

func TestProduct_Apply(t *testing.T) {
	p := &models.Product{ID: 7, Name: "Old", Price: decimal.NewFromInt(10), Availability: false}

	p.Apply(models.ProductRequest{Name: "New", Price: decimal.RequireFromString("12.50")})
	assert.Equal(t, uint(7), p.ID)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "12.5", p.Price.String())
	assert.False(t, p.Availability, "availability is kept when omitted")

	available := true
	p.Apply(models.ProductRequest{Name: "New", Price: decimal.NewFromInt(12), Availability: &available})
	assert.True(t, p.Availability)
}

func TestProduct_ApplyRoundsPrice(t *testing.T) {
	p := models.NewProduct(models.ProductRequest{Name: "Cable", Price: decimal.RequireFromString("12.345")})
	assert.Equal(t, "12.35", p.Price.String())

	p.Apply(models.ProductRequest{Name: "Cable", Price: decimal.RequireFromString("0.004")})
	assert.True(t, p.Price.IsZero())
}
