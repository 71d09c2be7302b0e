package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/commerce/internal/config"
	"github.com/deppfellow/commerce/internal/featureflag"
	"github.com/deppfellow/commerce/internal/metrics"
	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/deppfellow/commerce/internal/repository/repotest"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/service"
	"github.com/deppfellow/commerce/internal/session"
	"github.com/goccy/go-json"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSessionName = "commerce_session"

type fixture struct {
	server     *server.Server
	services   *service.Services
	handlers   *Handlers
	echo       *echo.Echo
	tx         *repotest.Tx
	currencies *repotest.CurrencyRepo
	options    *repotest.ShippingOptionRepo
	customers  *repotest.CustomerRepo
	users      *repotest.UserRepo
}

func newFixture(t *testing.T, flags featureflag.Flags) *fixture {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Auth: config.AuthConfig{
				JWTSecret: "fedcba9876543210fedcba9876543210",
				TokenTTL:  time.Hour,
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:   &logger,
		Sessions: session.NewManager(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), testSessionName),
		Flags:    flags,
		Metrics:  metrics.New(),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("lovelace"), bcrypt.MinCost)
	require.NoError(t, err)
	passwordHash := string(hash)

	f := &fixture{
		server: s,
		tx:     &repotest.Tx{},
		currencies: repotest.NewCurrencyRepo(
			model.Currency{Code: "eur", Symbol: "€", SymbolNative: "€", Name: "Euro"},
			model.Currency{Code: "usd", Symbol: "$", SymbolNative: "$", Name: "US Dollar"},
		),
		options: repotest.NewShippingOptionRepo(
			model.ShippingOption{ID: "so_free", Name: "Free shipping", PriceType: model.ShippingOptionPriceTypeFlatRate},
			model.ShippingOption{ID: "so_busy", Name: "Express", PriceType: model.ShippingOptionPriceTypeFlatRate},
		),
		customers: repotest.NewCustomerRepo(
			model.Customer{ID: "cus_1", Email: "ada@example.com", HasAccount: true, PasswordHash: &passwordHash},
			model.Customer{ID: "cus_2", Email: "guest@example.com"},
		),
		users: repotest.NewUserRepo(
			model.User{ID: "usr_1", Email: "admin@example.com", Role: model.UserRoleAdmin, PasswordHash: &passwordHash},
		),
	}
	f.options.InUse["so_busy"] = true

	f.services = service.NewServices(s, &repository.Repositories{
		Currency:       f.currencies,
		ShippingOption: f.options,
		Customer:       f.customers,
		User:           f.users,
		Tx:             f.tx,
	})
	f.handlers = NewHandlers(s, f.services)

	f.echo = echo.New()
	f.echo.JSONSerializer = server.JSONSerializer{}
	f.echo.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	return f
}

func (f *fixture) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// withIdentity stands in for the auth middleware.
func withIdentity(key, value string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(key, value)
			return next(c)
		}
	}
}
