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

// CategoryHandler implements category CRUD over the self-referential
// tree. Reads are public; writes are admin-only via the policy
// middleware. Deleting a node takes its whole subtree with it.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: r}
}

type categoryReq struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ParentID    *uint64 `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

func applyCategory(req categoryReq, cat *model.Category) validate.Errors {
	errs := validate.New()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add("name", "This field is required.")
		return errs
	}
	cat.Name = name
	cat.Slug = strings.TrimSpace(req.Slug)
	if cat.Slug == "" {
		cat.Slug = utils.Slugify(name)
	}
	if cat.Slug == "" {
		errs.Add("name", "A slug could not be derived from this name.")
	}
	cat.Description = req.Description
	cat.ParentID = req.ParentID
	cat.IsActive = true
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	return errs
}

// List returns all categories.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if cats == nil {
		cats = []*model.Category{}
	}
	return c.JSON(http.StatusOK, cats)
}

// Get returns one category.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

// Children returns the direct children of a category.
func (h *CategoryHandler) Children(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	kids, err := h.Categories.ListChildren(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if kids == nil {
		kids = []*model.Category{}
	}
	return c.JSON(http.StatusOK, kids)
}

// Create inserts a category, admin-only.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var cat model.Category
	if errs := applyCategory(req, &cat); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Categories.Create(ctx, &cat); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusBadRequest, validate.Errors{"parent_id": {"Invalid parent category."}})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name or slug already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
		}
	}
	return c.JSON(http.StatusCreated, cat)
}

// Update rewrites a category, admin-only. A parent change that would
// make the node its own ancestor is rejected before any write.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if errs := applyCategory(req, cat); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	if err := h.Categories.Update(ctx, cat); err != nil {
		switch {
		case errors.Is(err, repository.ErrCycle):
			return c.JSON(http.StatusBadRequest, validate.Errors{"parent_id": {"A category cannot be its own ancestor."}})
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusBadRequest, validate.Errors{"parent_id": {"Invalid parent category."}})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name or slug already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete removes a category and all its descendants. Products that
// referenced any deleted node keep existing with the reference cleared.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
