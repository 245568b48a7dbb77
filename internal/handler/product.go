package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/model"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
	"github.com/Sohaib59/ecommerce-store/internal/utils"
	"github.com/Sohaib59/ecommerce-store/internal/validate"
)

// ProductHandler implements product CRUD. Reads are public; writes are
// admin-only via the policy middleware. Every response carries the
// derived pricing fields so clients never recompute discount math.
type ProductHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
	Brands     *repository.BrandRepo
}

func NewProductHandler(p *repository.ProductRepo, c *repository.CategoryRepo, b *repository.BrandRepo) *ProductHandler {
	return &ProductHandler{Products: p, Categories: c, Brands: b}
}

type productReq struct {
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	CategoryID       *uint64  `json:"category_id"`
	BrandID          *uint64  `json:"brand_id"`
	Price            *float64 `json:"price"`
	DiscountPrice    *float64 `json:"discount_price"`
	Stock            *int     `json:"stock"`
	Rating           *float64 `json:"rating"`
	ReviewsCount     *int     `json:"reviews_count"`
	Status           string   `json:"status"`
	IsFeatured       *bool    `json:"is_featured"`
	IsActive         *bool    `json:"is_active"`
}

// productView is the product representation returned by the API: the
// stored fields plus the derived pricing/stock values.
type productView struct {
	model.Product
	HasDiscount        bool    `json:"has_discount"`
	DiscountPercentage float64 `json:"discount_percentage"`
	IsInStock          bool    `json:"is_in_stock"`
}

func viewOf(p model.Product) productView {
	return productView{
		Product:            p,
		HasDiscount:        p.HasDiscount(),
		DiscountPercentage: p.DiscountPercentage(),
		IsInStock:          p.IsInStock(),
	}
}

// applyProduct validates the request and maps it onto the model.
// Numeric bounds are hard rules: price strictly positive (a zero base
// price would make the discount percentage undefined), discount and
// stock non-negative, rating within [0,5].
func applyProduct(req productReq, p *model.Product) validate.Errors {
	errs := validate.New()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add("name", "This field is required.")
	}
	if req.Price == nil {
		errs.Add("price", "This field is required.")
	} else if *req.Price <= 0 {
		errs.Add("price", "Price must be greater than zero.")
	}
	if req.DiscountPrice != nil && *req.DiscountPrice < 0 {
		errs.Add("discount_price", "Discount price must not be negative.")
	}
	if req.Stock != nil && *req.Stock < 0 {
		errs.Add("stock", "Stock must not be negative.")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		errs.Add("rating", "Rating must be between 0 and 5.")
	}
	if req.ReviewsCount != nil && *req.ReviewsCount < 0 {
		errs.Add("reviews_count", "Reviews count must not be negative.")
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = model.ProductStatusActive
	}
	if !model.ValidProductStatus(status) {
		errs.Add("status", "Status must be one of: active, inactive, discontinued.")
	}
	if !errs.Empty() {
		return errs
	}

	p.Name = name
	p.Slug = strings.TrimSpace(req.Slug)
	if p.Slug == "" {
		p.Slug = utils.Slugify(name)
	}
	if p.Slug == "" {
		errs.Add("name", "A slug could not be derived from this name.")
		return errs
	}
	p.Description = req.Description
	p.ShortDescription = req.ShortDescription
	p.CategoryID = req.CategoryID
	p.BrandID = req.BrandID
	p.Price = *req.Price
	p.DiscountPrice = req.DiscountPrice
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if req.ReviewsCount != nil {
		p.ReviewsCount = *req.ReviewsCount
	}
	p.Status = status
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	p.IsActive = true
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return errs
}

// checkRefs verifies that the referenced category and brand exist,
// reporting failures as field errors rather than raw FK violations.
func (h *ProductHandler) checkRefs(c echo.Context, p *model.Product) validate.Errors {
	errs := validate.New()
	ctx, cancel := reqContext(c)
	defer cancel()

	if p.CategoryID != nil {
		if _, err := h.Categories.GetByID(ctx, *p.CategoryID); err != nil {
			errs.Add("category_id", "Invalid category.")
		}
	}
	if p.BrandID != nil {
		if _, err := h.Brands.GetByID(ctx, *p.BrandID); err != nil {
			errs.Add("brand_id", "Invalid brand.")
		}
	}
	return errs
}

// listFilter parses the supported query parameters into a ProductFilter.
func listFilter(c echo.Context) repository.ProductFilter {
	var f repository.ProductFilter
	if v := c.QueryParam("category"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.CategoryID = &n
		}
	}
	if v := c.QueryParam("brand"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.BrandID = &n
		}
	}
	if v := c.QueryParam("status"); v != "" && model.ValidProductStatus(v) {
		f.Status = &v
	}
	if v := c.QueryParam("featured"); v != "" {
		b := v == "true" || v == "1"
		f.Featured = &b
	}
	if v := c.QueryParam("in_stock"); v != "" {
		b := v == "true" || v == "1"
		f.InStock = &b
	}
	if v := c.QueryParam("active"); v != "" {
		b := v == "true" || v == "1"
		f.Active = &b
	}
	return f
}

// List returns products matching the query filters.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	products, err := h.Products.List(ctx, listFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, viewOf(*p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one product with derived fields.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, viewOf(*p))
}

// GetBySlug returns one product addressed by its slug.
func (h *ProductHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slug"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Products.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, viewOf(*p))
}

// Create inserts a product, admin-only.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var p model.Product
	if errs := applyProduct(req, &p); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}
	if errs := h.checkRefs(c, &p); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Products.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, viewOf(p))
}

// Update rewrites a product, admin-only.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if errs := applyProduct(req, p); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}
	if errs := h.checkRefs(c, p); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	if err := h.Products.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, viewOf(*p))
}

// Delete removes a product and its images.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
