package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	s := newTestServer(t)
	limiter := NewRateLimitMiddleware(s)

	e := newEcho(s)
	e.POST("/store/auth", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, limiter.Limit())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/store/auth", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics.RateLimitHits.WithLabelValues("/store/auth")))
}

func TestRateLimit_IgnoresForwardedForWithoutTrustedProxies(t *testing.T) {
	s := newTestServer(t)

	e := newEcho(s)
	e.IPExtractor = ClientIPExtractor(nil)
	e.POST("/store/auth", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimitMiddleware(s).Limit())

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/store/auth", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 429, 429, 429}, codes)
}

func TestClientIPExtractor(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "direct ignores forwarded header",
			remoteAddr: "203.0.113.7:5000",
			forwarded:  "198.51.100.1",
			want:       "203.0.113.7",
		},
		{
			name:       "trusted proxy forwards client",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:5000",
			forwarded:  "198.51.100.1",
			want:       "198.51.100.1",
		},
		{
			name:       "untrusted peer cannot forward",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.7:5000",
			forwarded:  "198.51.100.1",
			want:       "203.0.113.7",
		},
		{
			name:       "private peer is not trusted implicitly",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "192.168.1.5:5000",
			forwarded:  "198.51.100.1",
			want:       "192.168.1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set(echo.HeaderXForwardedFor, tt.forwarded)

			assert.Equal(t, tt.want, ClientIPExtractor(tt.trusted)(req))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t)
	s.Config.RateLimit.Disabled = true

	e := newEcho(s)
	e.POST("/store/auth", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimitMiddleware(s).Limit())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/store/auth", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
