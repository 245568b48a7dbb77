package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(f float64) *float64 { return &f }

func TestProductHasDiscount(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount *float64
		want     bool
	}{
		{"no discount set", 100, nil, false},
		{"discount below price", 100, fptr(75), true},
		{"discount equals price", 100, fptr(100), false},
		{"discount above price", 100, fptr(120), false},
		{"free with discount", 100, fptr(0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: tc.price, DiscountPrice: tc.discount}
			assert.Equal(t, tc.want, p.HasDiscount())
		})
	}
}

func TestProductDiscountPercentage(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount *float64
		want     float64
	}{
		{"quarter off", 100, fptr(75), 25.0},
		{"no discount", 100, nil, 0},
		{"ineffective discount", 100, fptr(100), 0},
		{"rounded to cents", 29.99, fptr(19.99), 33.34},
		{"full discount", 80, fptr(0), 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: tc.price, DiscountPrice: tc.discount}
			assert.InDelta(t, tc.want, p.DiscountPercentage(), 0.001)
		})
	}
}

func TestProductIsInStock(t *testing.T) {
	assert.True(t, Product{Stock: 1}.IsInStock())
	assert.False(t, Product{Stock: 0}.IsInStock())
	assert.False(t, Product{Stock: -1}.IsInStock())
}

func TestValidProductStatus(t *testing.T) {
	for _, s := range []string{ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued} {
		assert.True(t, ValidProductStatus(s), s)
	}
	assert.False(t, ValidProductStatus(""))
	assert.False(t, ValidProductStatus("archived"))
	assert.False(t, ValidProductStatus("Active"))
}
