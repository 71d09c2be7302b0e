package handler

import (
	"net/http"
	"testing"

	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAuth_LoginAndSession(t *testing.T) {
	f := newFixture(t, taxInclusive(false))
	h := f.handlers.AdminAuth
	auth := middleware.NewAuthMiddleware(f.server, f.services.Auth)

	f.echo.POST("/admin/auth", Handle[LoginRequest](h.Handler, h.Login, http.StatusOK))
	f.echo.GET("/admin/auth", Handle[EmptyRequest](h.Handler, h.GetSession, http.StatusOK), auth.RequireAdmin)
	f.echo.DELETE("/admin/auth", Handle[EmptyRequest](h.Handler, h.Logout, http.StatusOK))

	rec := f.do(http.MethodGet, "/admin/auth", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/admin/auth", `{"email":"admin@example.com","password":"lovelace"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_1", decode[UserResponse](t, rec).User.ID)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = f.do(http.MethodGet, "/admin/auth", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", decode[UserResponse](t, rec).User.Email)

	rec = f.do(http.MethodDelete, "/admin/auth", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuth_WrongPassword(t *testing.T) {
	f := newFixture(t, taxInclusive(false))
	h := f.handlers.AdminAuth
	f.echo.POST("/admin/auth", Handle[LoginRequest](h.Handler, h.Login, http.StatusOK))

	rec := f.do(http.MethodPost, "/admin/auth", `{"email":"admin@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_StoreLogoutKeepsAdminSession(t *testing.T) {
	f := newStoreAuthFixture(t)
	admin := f.handlers.AdminAuth
	auth := middleware.NewAuthMiddleware(f.server, f.services.Auth)

	f.echo.POST("/admin/auth", Handle[LoginRequest](admin.Handler, admin.Login, http.StatusOK))
	f.echo.GET("/admin/auth", Handle[EmptyRequest](admin.Handler, admin.GetSession, http.StatusOK), auth.RequireAdmin)
	f.echo.GET("/store/auth", Handle[EmptyRequest](f.handlers.StoreAuth.Handler, f.handlers.StoreAuth.GetSession, http.StatusOK), auth.RequireCustomer)

	rec := f.do(http.MethodPost, "/admin/auth", `{"email":"admin@example.com","password":"lovelace"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/store/auth", `{"email":"ada@example.com","password":"lovelace"}`, rec.Result().Cookies()...)
	require.Equal(t, http.StatusOK, rec.Code)
	both := rec.Result().Cookies()

	rec = f.do(http.MethodDelete, "/store/auth", "", both...)
	require.Equal(t, http.StatusOK, rec.Code)
	afterLogout := rec.Result().Cookies()
	require.NotEmpty(t, afterLogout)

	rec = f.do(http.MethodGet, "/store/auth", "", afterLogout...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/admin/auth", "", afterLogout...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_1", decode[UserResponse](t, rec).User.ID)
}
