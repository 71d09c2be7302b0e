package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSerializer_RoundTrip(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"usd","includes_tax":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var payload struct {
		Code        string `json:"code"`
		IncludesTax bool   `json:"includes_tax"`
	}
	require.NoError(t, c.Bind(&payload))
	assert.Equal(t, "usd", payload.Code)
	assert.True(t, payload.IncludesTax)

	require.NoError(t, c.JSON(http.StatusOK, map[string]any{"currency": payload}))
	assert.JSONEq(t, `{"currency":{"code":"usd","includes_tax":true}}`, rec.Body.String())
}

func TestJSONSerializer_MalformedBodyIs400(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var payload map[string]any
	err := c.Bind(&payload)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.NotNil(t, httpErr.Internal)
}
