package handler

import (
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/config"
	"github.com/Sohaib59/ecommerce-store/internal/queue"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
	"github.com/Sohaib59/ecommerce-store/internal/service/queue_publisher"
	"github.com/Sohaib59/ecommerce-store/internal/utils"
	"github.com/Sohaib59/ecommerce-store/internal/validate"
)

// AuthHandler bundles dependencies for the credential-lifecycle
// endpoints: register, login, logout, change-password and me.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Tokens   *repository.TokenRepo
	Profiles *repository.ProfileRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, p *repository.ProfileRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Profiles: p}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordReq struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// validateRegistration runs the field-level checks shared by register
// and the admin create-user path. Uniqueness of the email is left to
// the insert (unique index), which reports it as a conflict.
func validateRegistration(req registerReq) validate.Errors {
	errs := validate.New()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		errs.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}

	if req.Password == "" {
		errs.Add("password", "This field is required.")
	} else {
		errs.Add("password", utils.CheckPasswordStrength(req.Password, email)...)
	}
	if req.PasswordConfirm != req.Password {
		errs.Add("password_confirm", "The two password fields didn't match.")
	}
	return errs
}

// validateEmailField checks a bare email value for update requests.
func validateEmailField(email string) validate.Errors {
	errs := validate.New()
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}
	return errs
}

// issueToken generates a candidate token and runs the atomic
// get-or-create, returning whichever value is live for the user.
func (h *AuthHandler) issueToken(c echo.Context, userID uint64) (string, error) {
	candidate, err := utils.NewAuthToken()
	if err != nil {
		return "", err
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	return h.Tokens.GetOrCreate(ctx, userID, candidate)
}

// Register creates an account and returns its token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateRegistration(req); !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, false, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, validate.Errors{
				"email": {"A user with that email already exists."},
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	token, err := h.issueToken(c, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	// Fire-and-forget: a failed event must not fail the registration.
	go func() {
		ev := queue.AccountRegisteredEvent{UserID: u.ID, Email: u.Email, RegisteredAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")}
		if err := queue_publisher.PublishAccountRegistered(ev); err != nil {
			log.Printf("register: publish event failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"user":    u.Public(nil),
		"token":   token,
		"message": "User registered successfully",
	})
}

// Login verifies credentials and returns the user's live token. The
// same token comes back on every login until logout; failures are
// deliberately indistinguishable so accounts cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.issueToken(c, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	profileID, _ := h.Profiles.IDByUser(ctx, u.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"user":    u.Public(profileID),
		"token":   token,
		"message": "Login successful",
	})
}

// Logout deletes the caller's token. Calling it without a live token is
// reported, not swallowed.
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Tokens.DeleteByUser(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no active session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// ChangePassword re-verifies the current credential before accepting a
// new one. A wrong current password does not invalidate the session.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusBadRequest, validate.Errors{"old_password": {"Wrong password."}})
	}

	errs := validate.New()
	if req.NewPassword == "" {
		errs.Add("new_password", "This field is required.")
	} else {
		errs.Add("new_password", utils.CheckPasswordStrength(req.NewPassword, u.Email)...)
	}
	if req.NewPasswordConfirm != req.NewPassword {
		errs.Add("new_password_confirm", "The two password fields didn't match.")
	}
	if !errs.Empty() {
		return c.JSON(http.StatusBadRequest, errs)
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Users.UpdatePassword(ctx, p.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// Me returns the caller's public representation.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	profileID, _ := h.Profiles.IDByUser(ctx, u.ID)
	return c.JSON(http.StatusOK, u.Public(profileID))
}
