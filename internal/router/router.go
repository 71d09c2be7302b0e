// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/commerce/internal/handler"
	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain,
// the system routes and the admin and store groups.
func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.JSONSerializer = server.JSONSerializer{}
	router.HTTPErrorHandler = m.Global.GlobalErrorHandler
	router.IPExtractor = middleware.ClientIPExtractor(s.Config.Server.TrustedProxies)

	router.Use(
		m.Global.Recover(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		s.Metrics.HTTP.Middleware(),
		m.Global.CORS(),
		m.Global.Secure(),
		m.Global.BodyLimit(),
	)

	registerSystemRoutes(router, s, h)
	registerAdminRoutes(router.Group("/admin"), h, m)
	registerStoreRoutes(router.Group("/store"), h, m)

	return router
}

func registerAdminRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	limit := m.RateLimit.Limit()
	requireAdmin := m.Auth.RequireAdmin

	g.POST("/auth", handler.Handle[handler.LoginRequest](h.AdminAuth.Handler, h.AdminAuth.Login, http.StatusOK), limit)
	g.GET("/auth", handler.Handle[handler.EmptyRequest](h.AdminAuth.Handler, h.AdminAuth.GetSession, http.StatusOK), requireAdmin)
	g.DELETE("/auth", handler.Handle[handler.EmptyRequest](h.AdminAuth.Handler, h.AdminAuth.Logout, http.StatusOK))

	g.GET("/currencies", handler.Handle[handler.ListCurrenciesRequest](h.Currency.Handler, h.Currency.List, http.StatusOK), requireAdmin)
	g.POST("/currencies/:code", handler.Handle[handler.UpdateCurrencyRequest](h.Currency.Handler, h.Currency.Update, http.StatusOK), requireAdmin)

	g.GET("/shipping-options/:id", handler.Handle[handler.ShippingOptionIDRequest](h.ShippingOption.Handler, h.ShippingOption.Get, http.StatusOK), requireAdmin)
	g.DELETE("/shipping-options/:id", handler.Handle[handler.ShippingOptionIDRequest](h.ShippingOption.Handler, h.ShippingOption.Delete, http.StatusOK), requireAdmin)
}

func registerStoreRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	limit := m.RateLimit.Limit()

	g.GET("/auth", handler.Handle[handler.EmptyRequest](h.StoreAuth.Handler, h.StoreAuth.GetSession, http.StatusOK), m.Auth.RequireCustomer)
	g.GET("/auth/:email", handler.Handle[handler.EmailRequest](h.StoreAuth.Handler, h.StoreAuth.Exists, http.StatusOK), limit)
	g.POST("/auth", handler.Handle[handler.LoginRequest](h.StoreAuth.Handler, h.StoreAuth.Login, http.StatusOK), limit)
	g.DELETE("/auth", handler.Handle[handler.EmptyRequest](h.StoreAuth.Handler, h.StoreAuth.Logout, http.StatusOK))
	g.POST("/auth/token", handler.Handle[handler.LoginRequest](h.StoreAuth.Handler, h.StoreAuth.Token, http.StatusOK), limit)
}
