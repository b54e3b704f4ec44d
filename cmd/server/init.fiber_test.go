package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/config"
)

func TestNewFiberApp_UnknownRouteUsesErrorEnvelope(t *testing.T) {
	app := newFiberApp(&config.Configuration{BodyLimitMB: 1})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "DB_002", body["code"])
	assert.Equal(t, []interface{}{}, body["errors"])
}

func TestNewFiberApp_RateLimit(t *testing.T) {
	app := newFiberApp(&config.Configuration{RateLimit_Enabled: true, RateLimit_Max: 1, RateLimit_Window: 60})
	app.Get("/api/v1/ping", func(c fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCorsConfig(t *testing.T) {
	c := corsConfig(&config.Configuration{CORS_Origins: "http://a.test, http://b.test", CORS_AllowCredentials: true})
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowOrigins)
	assert.True(t, c.AllowCredentials)

	c = corsConfig(&config.Configuration{CORS_Origins: "*", CORS_AllowCredentials: true})
	assert.False(t, c.AllowCredentials)
}
