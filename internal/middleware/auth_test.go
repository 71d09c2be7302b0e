package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func identityHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"user_id":     GetUserID(c),
		"customer_id": GetCustomerID(c),
	})
}

func TestRequireCustomer(t *testing.T) {
	s := newTestServer(t)
	stub := &stubAuthenticator{customerToken: "jwt_ok"}
	auth := NewAuthMiddleware(s, stub)

	e := newEcho(s)
	e.GET("/store/auth", identityHandler, auth.RequireCustomer)

	t.Run("no credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/store/auth", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/store/auth", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer jwt_bad")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/store/auth", nil)
		req.Header.Set(echo.HeaderAuthorization, "bearer jwt_ok")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"customer_id":"cus_1"`)
	})

	t.Run("session", func(t *testing.T) {
		cookie := sessionCookie(t, s, func(w http.ResponseWriter, r *http.Request) error {
			return s.Sessions.SetCustomer(w, r, "cus_42")
		})
		req := httptest.NewRequest(http.MethodGet, "/store/auth", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"customer_id":"cus_42"`)
	})

	t.Run("admin session is not a customer", func(t *testing.T) {
		cookie := sessionCookie(t, s, func(w http.ResponseWriter, r *http.Request) error {
			return s.Sessions.SetUser(w, r, "usr_1")
		})
		req := httptest.NewRequest(http.MethodGet, "/store/auth", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	stub := &stubAuthenticator{apiToken: "tok_admin"}
	auth := NewAuthMiddleware(s, stub)

	e := newEcho(s)
	e.DELETE("/admin/shipping-options/:id", identityHandler, auth.RequireAdmin)

	t.Run("no credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/shipping-options/so_1", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, stub.lookups)
	})

	t.Run("api token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/admin/shipping-options/so_1", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer tok_admin")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":"usr_1"`)
	})

	t.Run("wrong api token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/admin/shipping-options/so_1", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer tok_other")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session", func(t *testing.T) {
		cookie := sessionCookie(t, s, func(w http.ResponseWriter, r *http.Request) error {
			return s.Sessions.SetUser(w, r, "usr_7")
		})
		req := httptest.NewRequest(http.MethodDelete, "/admin/shipping-options/so_1", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":"usr_7"`)
	})
}
