package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestLoggerMiddleware_PassesThrough(t *testing.T) {
	e := echo.New()
	mw := NewMiddlewareManager(&config.Config{}, []string{"*"}, logger.NewNopLogger())
	e.Use(mw.RequestLoggerMiddleware)
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "nope") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	e := echo.New()
	mw := NewMiddlewareManager(&config.Config{}, []string{"http://player.local"}, logger.NewNopLogger())
	e.Use(mw.CORS())
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderOrigin, "http://player.local")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "http://player.local", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
