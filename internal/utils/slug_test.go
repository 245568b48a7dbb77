package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Gaming Laptops", "gaming-laptops"},
		{"accents folded", "Café au Lait", "cafe-au-lait"},
		{"punctuation collapsed", "50% Off!! Deals & More", "50-off-deals-more"},
		{"leading and trailing junk", "  --Hello__World--  ", "hello-world"},
		{"already a slug", "usb-c-cable", "usb-c-cable"},
		{"digits kept", "iPhone 15 Pro", "iphone-15-pro"},
		{"empty", "", ""},
		{"only separators", "!!! --- ___", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	a := Slugify("Über Groß Straße")
	b := Slugify("Über Groß Straße")
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}
