package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	admin := Principal{ID: 1, IsAdmin: true}
	user := Principal{ID: 7}

	cases := []struct {
		name   string
		op     string
		p      Principal
		target uint64
		want   bool
	}{
		{"any caller may list users", "users.list", user, 0, true},
		{"only admin creates users", "users.create", user, 0, false},
		{"admin creates users", "users.create", admin, 0, true},
		{"user reads own record", "users.get", user, 7, true},
		{"user cannot read others", "users.get", user, 8, false},
		{"admin reads anyone", "users.get", admin, 8, true},
		{"user cannot deactivate", "users.deactivate", user, 7, false},
		{"admin deactivates", "users.deactivate", admin, 7, true},
		{"owner updates own profile", "profiles.update", user, 7, true},
		{"stranger cannot update profile", "profiles.update", user, 8, false},
		{"catalog writes are admin only", "products.write", user, 0, false},
		{"admin writes catalog", "brands.write", admin, 0, true},
		{"unknown operation fails closed", "users.frobnicate", admin, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.op, tc.p, tc.target))
		})
	}
}

func TestRequireOperation(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(op string, p *Principal, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if id != "" {
			c.SetParamNames("id")
			c.SetParamValues(id)
		}
		if p != nil {
			c.Set(CtxUserID, p.ID)
			c.Set(CtxIsAdmin, p.IsAdmin)
		}
		err := RequireOperation(op)(next)(c)
		require.NoError(t, err)
		return rec
	}

	t.Run("unauthenticated is 401", func(t *testing.T) {
		rec := run("users.get", nil, "1")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("denied is 403", func(t *testing.T) {
		rec := run("users.get", &Principal{ID: 7}, "8")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("self target passes", func(t *testing.T) {
		rec := run("users.get", &Principal{ID: 7}, "7")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin passes without target", func(t *testing.T) {
		rec := run("users.create", &Principal{ID: 1, IsAdmin: true}, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
