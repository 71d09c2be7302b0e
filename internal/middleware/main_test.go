package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/commerce/internal/config"
	"github.com/deppfellow/commerce/internal/errs"
	"github.com/deppfellow/commerce/internal/metrics"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/session"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const sessionName = "commerce_session"

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	return &server.Server{
		Config: &config.Config{
			Server:    config.ServerConfig{CORSAllowedOrigins: []string{"http://localhost:8000"}},
			RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1},
		},
		Logger:   &logger,
		Sessions: session.NewManager(store, sessionName),
		Metrics:  metrics.New(),
	}
}

// stubAuthenticator accepts a single API token and a single customer token.
type stubAuthenticator struct {
	apiToken      string
	customerToken string
	lookups       int
}

func (s *stubAuthenticator) UserByAPIToken(_ context.Context, token string) (*model.User, error) {
	s.lookups++
	if token != s.apiToken {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}
	return &model.User{ID: "usr_1", Role: model.UserRoleAdmin}, nil
}

func (s *stubAuthenticator) ParseCustomerToken(token string) (string, error) {
	if token != s.customerToken {
		return "", errs.NewUnauthorizedError("Unauthorized", false)
	}
	return "cus_1", nil
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

// sessionCookie logs in through the session manager and returns the
// resulting cookie.
func sessionCookie(t *testing.T, s *server.Server, set func(w http.ResponseWriter, r *http.Request) error) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := set(rec, httptest.NewRequest(http.MethodPost, "/", nil)); err != nil {
		t.Fatalf("setting session: %v", err)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionName {
			return cookie
		}
	}
	t.Fatal("no session cookie written")
	return nil
}
