package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/commerce/internal/errs"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Authenticator resolves bearer credentials. *service.AuthService
// satisfies it.
type Authenticator interface {
	UserByAPIToken(ctx context.Context, token string) (*model.User, error)
	ParseCustomerToken(token string) (string, error)
}

// AuthMiddleware holds the app Server so middleware can access shared deps
// like Logger and the session manager.
type AuthMiddleware struct {
	server *server.Server
	auth   Authenticator
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAdmin lets the request through when the session holds an admin
// user or the request carries "Authorization: Bearer <api_token>".
//
// On success user_id (and user_role for API tokens) are stored in the
// Echo context.
func (auth *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if userID, ok := auth.server.Sessions.UserID(c.Request()); ok {
			c.Set(UserIDKey, userID)
			return next(c)
		}

		if token := bearerToken(c); token != "" {
			user, err := auth.auth.UserByAPIToken(c.Request().Context(), token)
			if err == nil {
				c.Set(UserIDKey, user.ID)
				c.Set(UserRoleKey, string(user.Role))
				return next(c)
			}
			if !isUnauthorized(err) {
				return err
			}
		}

		auth.server.Logger.Warn().
			Str("function", "RequireAdmin").
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("admin request without valid credentials")

		return errs.NewUnauthorizedError("Unauthorized", false)
	}
}

// RequireCustomer lets the request through when the session holds a
// customer or the request carries a valid storefront bearer token.
//
// Neither path reads the database; handlers load the customer themselves.
func (auth *AuthMiddleware) RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if customerID, ok := auth.server.Sessions.CustomerID(c.Request()); ok {
			c.Set(CustomerIDKey, customerID)
			return next(c)
		}

		if token := bearerToken(c); token != "" {
			if customerID, err := auth.auth.ParseCustomerToken(token); err == nil {
				c.Set(CustomerIDKey, customerID)
				return next(c)
			}
		}

		auth.server.Logger.Debug().
			Str("function", "RequireCustomer").
			Str("request_id", GetRequestID(c)).
			Msg("store request without valid credentials")

		return errs.NewUnauthorizedError("Unauthorized", false)
	}
}

func isUnauthorized(err error) bool {
	var httpErr *errs.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}
