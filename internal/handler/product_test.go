package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestApplyProductValid(t *testing.T) {
	var p model.Product
	errs := applyProduct(productReq{
		Name:          "  Wireless Mouse  ",
		Price:         f64(29.99),
		DiscountPrice: f64(19.99),
		Stock:         i(12),
	}, &p)
	require.True(t, errs.Empty(), "unexpected errors: %v", errs)

	assert.Equal(t, "Wireless Mouse", p.Name)
	assert.Equal(t, "wireless-mouse", p.Slug, "slug derived from name")
	assert.Equal(t, 29.99, p.Price)
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, model.ProductStatusActive, p.Status, "status defaults to active")
	assert.True(t, p.IsActive)
}

func TestApplyProductExplicitSlugKept(t *testing.T) {
	var p model.Product
	errs := applyProduct(productReq{Name: "Wireless Mouse", Slug: "mouse-v2", Price: f64(10)}, &p)
	require.True(t, errs.Empty())
	assert.Equal(t, "mouse-v2", p.Slug)
}

func TestApplyProductRejections(t *testing.T) {
	cases := []struct {
		name  string
		req   productReq
		field string
	}{
		{"missing name", productReq{Price: f64(10)}, "name"},
		{"missing price", productReq{Name: "Thing"}, "price"},
		{"zero price", productReq{Name: "Thing", Price: f64(0)}, "price"},
		{"negative price", productReq{Name: "Thing", Price: f64(-5)}, "price"},
		{"negative discount", productReq{Name: "Thing", Price: f64(10), DiscountPrice: f64(-1)}, "discount_price"},
		{"negative stock", productReq{Name: "Thing", Price: f64(10), Stock: i(-3)}, "stock"},
		{"rating above range", productReq{Name: "Thing", Price: f64(10), Rating: f64(5.5)}, "rating"},
		{"unknown status", productReq{Name: "Thing", Price: f64(10), Status: "archived"}, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p model.Product
			errs := applyProduct(tc.req, &p)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestViewOfComputesDerivedFields(t *testing.T) {
	v := viewOf(model.Product{Price: 100, DiscountPrice: f64(75), Stock: 3})
	assert.True(t, v.HasDiscount)
	assert.InDelta(t, 25.0, v.DiscountPercentage, 0.001)
	assert.True(t, v.IsInStock)

	v = viewOf(model.Product{Price: 100, Stock: 0})
	assert.False(t, v.HasDiscount)
	assert.Zero(t, v.DiscountPercentage)
	assert.False(t, v.IsInStock)
}
