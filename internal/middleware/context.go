package middleware

import (
	"context"

	"github.com/deppfellow/commerce/internal/logger"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// Keys used for identities in the Echo context.
	UserIDKey     = "user_id"
	UserRoleKey   = "user_role"
	CustomerIDKey = "customer_id"

	// LoggerKey stores the request-scoped logger in the Echo context.
	LoggerKey = "logger"
)

type loggerContextKey struct{}

// ContextEnhancer builds a request-scoped logger carrying request_id,
// method, path, ip and the New Relic trace ids when present.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext stores the request logger in both the Echo context and
// the request's context.Context so code below the handler can log with
// the same fields.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := context.WithValue(c.Request().Context(), loggerContextKey{}, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID returns the authenticated admin user, or "".
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetCustomerID returns the authenticated customer, or "".
func GetCustomerID(c echo.Context) string {
	if customerID, ok := c.Get(CustomerIDKey).(string); ok {
		return customerID
	}
	return ""
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		// Identities are set by route middleware which runs after the
		// enhancer, so they are attached here on read.
		l := logger.With().Logger()
		if userID := GetUserID(c); userID != "" {
			l = l.With().Str("user_id", userID).Logger()
		}
		if customerID := GetCustomerID(c); customerID != "" {
			l = l.With().Str("customer_id", customerID).Logger()
		}
		return &l
	}

	logger := zerolog.Nop()
	return &logger
}

// LoggerFromContext returns the request logger stored by EnhanceContext,
// or a no-op logger.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*zerolog.Logger); ok {
		return logger
	}
	logger := zerolog.Nop()
	return &logger
}
