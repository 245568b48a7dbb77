package handler

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sohaib59/ecommerce-store/internal/config"
	"github.com/Sohaib59/ecommerce-store/internal/middleware"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
	"github.com/Sohaib59/ecommerce-store/internal/utils"
)

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name      string
		req       registerReq
		badFields []string
	}{
		{
			"valid",
			registerReq{Email: "alice@example.com", Password: "correct-horse-battery", PasswordConfirm: "correct-horse-battery"},
			nil,
		},
		{
			"missing everything",
			registerReq{},
			[]string{"email", "password"},
		},
		{
			"malformed email",
			registerReq{Email: "not-an-email", Password: "correct-horse-battery", PasswordConfirm: "correct-horse-battery"},
			[]string{"email"},
		},
		{
			"weak password",
			registerReq{Email: "alice@example.com", Password: "12345678", PasswordConfirm: "12345678"},
			[]string{"password"},
		},
		{
			"password similar to email",
			registerReq{Email: "alice@example.com", Password: "alice-rules!", PasswordConfirm: "alice-rules!"},
			[]string{"password"},
		},
		{
			"confirmation mismatch",
			registerReq{Email: "alice@example.com", Password: "correct-horse-battery", PasswordConfirm: "correct-horse-buttery"},
			[]string{"password_confirm"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validateRegistration(tc.req)
			if len(tc.badFields) == 0 {
				assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
				return
			}
			assert.Len(t, errs, len(tc.badFields))
			for _, f := range tc.badFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidateEmailField(t *testing.T) {
	assert.True(t, validateEmailField("bob@example.com").Empty())
	assert.Contains(t, validateEmailField(""), "email")
	assert.Contains(t, validateEmailField("nope"), "email")
}

// rehashedCredential matches the password_hash argument of the update
// statement: the stored hash must verify the new password and must no
// longer verify the old one.
type rehashedCredential struct {
	oldPassword string
	newPassword string
}

func (m rehashedCredential) Match(v driver.Value) bool {
	hash, ok := v.(string)
	if !ok {
		return false
	}
	return utils.VerifyPassword(hash, m.newPassword) && !utils.VerifyPassword(hash, m.oldPassword)
}

// After a successful change-password the persisted hash verifies only
// the new credential; logging in with the old one is impossible.
func TestChangePasswordInvalidatesOldCredential(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	const oldPassword = "old-secret-12"
	const newPassword = "brand-new-secret-9"
	oldHash, err := utils.HashPassword(oldPassword, bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("SELECT id,email,password_hash,is_active,is_admin,created_at,updated_at FROM users WHERE id=? LIMIT 1").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "is_active", "is_admin", "created_at", "updated_at"}).
			AddRow(7, "alice@example.com", oldHash, true, false, now, now))
	mock.ExpectExec("UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?").
		WithArgs(rehashedCredential{oldPassword: oldPassword, newPassword: newPassword}, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	users := repository.NewUserRepo(db)
	h := NewAuthHandler(config.Config{BcryptCost: bcrypt.MinCost}, users, nil, nil)

	body := `{"old_password":"` + oldPassword + `","new_password":"` + newPassword + `","new_password_confirm":"` + newPassword + `"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/change-password", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(7))
	c.Set(middleware.CtxIsAdmin, false)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A wrong current password is a field error and never reaches the
// update statement.
func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	oldHash, err := utils.HashPassword("old-secret-12", bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("SELECT id,email,password_hash,is_active,is_admin,created_at,updated_at FROM users WHERE id=? LIMIT 1").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "is_active", "is_admin", "created_at", "updated_at"}).
			AddRow(7, "alice@example.com", oldHash, true, false, now, now))

	users := repository.NewUserRepo(db)
	h := NewAuthHandler(config.Config{BcryptCost: bcrypt.MinCost}, users, nil, nil)

	body := `{"old_password":"not-the-password","new_password":"brand-new-secret-9","new_password_confirm":"brand-new-secret-9"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/change-password", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(7))
	c.Set(middleware.CtxIsAdmin, false)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "old_password")
	require.NoError(t, mock.ExpectationsWereMet())
}
