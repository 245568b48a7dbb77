package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/model"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
	"github.com/Sohaib59/ecommerce-store/internal/utils"
	"github.com/Sohaib59/ecommerce-store/internal/validate"
)

// BrandHandler implements brand CRUD. Reads are public; writes are
// admin-only via the policy middleware.
type BrandHandler struct {
	Brands *repository.BrandRepo
}

func NewBrandHandler(b *repository.BrandRepo) *BrandHandler { return &BrandHandler{Brands: b} }

type brandReq struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Website     string `json:"website"`
	IsActive    *bool  `json:"is_active"`
}

// applyBrand validates the request and maps it onto the model. A
// missing slug is derived from the name; a colliding slug is reported
// by the repository as a conflict, never auto-suffixed.
func applyBrand(req brandReq, b *model.Brand) validate.Errors {
	errs := validate.New()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add("name", "This field is required.")
		return errs
	}
	b.Name = name
	b.Slug = strings.TrimSpace(req.Slug)
	if b.Slug == "" {
		b.Slug = utils.Slugify(name)
	}
	if b.Slug == "" {
		errs.Add("name", "A slug could not be derived from this name.")
	}
	b.Description = req.Description
	b.Website = req.Website
	b.IsActive = true
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	return errs
}

// List returns all brands.
func (h *BrandHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	brands, err := h.Brands.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if brands == nil {
		brands = []*model.Brand{}
	}
	return c.JSON(http.StatusOK, brands)
}

// Get returns one brand.
func (h *BrandHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Create inserts a brand, admin-only.
func (h *BrandHandler) Create(c echo.Context) error {
	var req brandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var b model.Brand
	if errs := applyBrand(req, &b); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Brands.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "brand name or slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, b)
}

// Update rewrites a brand, admin-only.
func (h *BrandHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req brandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if errs := applyBrand(req, b); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}
	if err := h.Brands.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "brand name or slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes a brand; products referencing it lose the reference
// but are kept.
func (h *BrandHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Brands.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
