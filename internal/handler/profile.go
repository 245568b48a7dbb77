package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/middleware"
	"github.com/Sohaib59/ecommerce-store/internal/model"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
)

// ProfileHandler implements the profile endpoints. A profile belongs to
// exactly one user and is created on the owner's first write. Ownership
// of a specific profile is only known after loading it, so the
// owner-or-admin rule is evaluated here through the same policy table
// the route middleware uses.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

type profileReq struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// List returns all profiles for administrators; everyone else gets a
// list holding at most their own profile.
func (h *ProfileHandler) List(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if !p.IsAdmin {
		own, err := h.Profiles.GetByUser(ctx, p.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return c.JSON(http.StatusOK, []*model.Profile{})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, []*model.Profile{own})
	}

	profiles, err := h.Profiles.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, profiles)
}

// Create makes the caller's profile. One per user; a second create is a
// conflict.
func (h *ProfileHandler) Create(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	profile := &model.Profile{
		UserID:     p.ID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
	if err := h.Profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, profile)
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	profile, err := h.Profiles.GetByUser(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, profile)
}

// Get returns a profile by id, visible to its owner or an admin.
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	profile, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !middleware.Allowed("profiles.get", p, profile.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, profile)
}

// Update rewrites a profile, allowed for its owner or an admin.
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	profile, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !middleware.Allowed("profiles.update", p, profile.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	profile.FullName = req.FullName
	profile.Phone = req.Phone
	profile.Address = req.Address
	profile.City = req.City
	profile.Country = req.Country
	profile.PostalCode = req.PostalCode
	if err := h.Profiles.Update(ctx, profile); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, profile)
}

// Delete removes a profile, admin-only (enforced by route middleware).
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Profiles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
