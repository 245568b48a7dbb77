package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/model"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
	"github.com/Sohaib59/ecommerce-store/internal/validate"
)

// ImageHandler implements product image CRUD. Listing is public; writes
// are admin-only via the policy middleware. Marking an image primary
// demotes its siblings inside the repository transaction, so a product
// never ends up with two primaries.
type ImageHandler struct {
	Images   *repository.ImageRepo
	Products *repository.ProductRepo
}

func NewImageHandler(i *repository.ImageRepo, p *repository.ProductRepo) *ImageHandler {
	return &ImageHandler{Images: i, Products: p}
}

type imageReq struct {
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
	IsPrimary *bool  `json:"is_primary"`
	SortOrder *int   `json:"sort_order"`
}

func validateImage(req imageReq) validate.Errors {
	errs := validate.New()
	if strings.TrimSpace(req.URL) == "" {
		errs.Add("url", "This field is required.")
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		errs.Add("sort_order", "Sort order must not be negative.")
	}
	return errs
}

// ListByProduct returns a product's images ordered for display.
func (h *ImageHandler) ListByProduct(c echo.Context) error {
	productID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	images, err := h.Images.ListByProduct(ctx, productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if images == nil {
		images = []*model.ProductImage{}
	}
	return c.JSON(http.StatusOK, images)
}

// Create attaches an image to a product, admin-only.
func (h *ImageHandler) Create(c echo.Context) error {
	productID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req imageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateImage(req); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	img := &model.ProductImage{
		ProductID: productID,
		URL:       strings.TrimSpace(req.URL),
		AltText:   req.AltText,
	}
	if req.IsPrimary != nil {
		img.IsPrimary = *req.IsPrimary
	}
	if req.SortOrder != nil {
		img.SortOrder = *req.SortOrder
	}
	if err := h.Images.Create(ctx, img); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, img)
}

// Update rewrites an image, admin-only. Promoting to primary demotes
// the product's other images in the same transaction.
func (h *ImageHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req imageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateImage(req); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	img, err := h.Images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	img.URL = strings.TrimSpace(req.URL)
	img.AltText = req.AltText
	if req.IsPrimary != nil {
		img.IsPrimary = *req.IsPrimary
	}
	if req.SortOrder != nil {
		img.SortOrder = *req.SortOrder
	}
	if err := h.Images.Update(ctx, img); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, img)
}

// Delete removes an image, admin-only.
func (h *ImageHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Images.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
