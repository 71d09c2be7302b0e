package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its dependencies are
// reachable. Load balancers and uptime monitors poll it.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// CheckHealth runs the configured dependency checks and returns 200 when
// all pass and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	observability := h.server.Config.Observability
	timeout := observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var dependencies []dependencyCheck
	if h.server.DB != nil && observability.HealthCheckEnabled("database") {
		dependencies = append(dependencies, dependencyCheck{"database", h.server.DB.Pool.Ping})
	}
	if h.server.Redis != nil && observability.HealthCheckEnabled("redis") {
		dependencies = append(dependencies, dependencyCheck{"redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}})
	}

	checks := make(map[string]any, len(dependencies))
	isHealthy := true

	for _, dep := range dependencies {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		checkStart := time.Now()
		err := dep.ping(ctx)
		cancel()
		elapsed := time.Since(checkStart)

		if err != nil {
			isHealthy = false
			checks[dep.name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", dep.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]any{
					"check_type":       dep.name,
					"operation":        "health_check",
					"error_type":       dep.name + "_unhealthy",
					"response_time_ms": elapsed.Milliseconds(),
					"error_message":    err.Error(),
				})
			}
			continue
		}

		checks[dep.name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
	}

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}
