package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImage(t *testing.T) {
	assert.True(t, validateImage(imageReq{URL: "https://cdn.example.com/a.jpg"}).Empty())
	assert.Contains(t, validateImage(imageReq{}), "url")
	assert.Contains(t, validateImage(imageReq{URL: "   "}), "url")

	neg := -1
	assert.Contains(t, validateImage(imageReq{URL: "https://cdn.example.com/a.jpg", SortOrder: &neg}), "sort_order")
}
