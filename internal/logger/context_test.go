package logger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithModule_CarriesRequestFields(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "rid-1")
	ctx = context.WithValue(ctx, UserIDKey, "u-1")

	entry := WithModule(ctx, "video")
	assert.Equal(t, "video", entry.Data["module"])
	assert.Equal(t, "rid-1", entry.Data["request_id"])
	assert.Equal(t, "u-1", entry.Data["user_id"])

	bare := WithModule(context.Background(), "cache")
	assert.NotContains(t, bare.Data, "request_id")
	assert.NotContains(t, bare.Data, "user_id")
}

func TestBindRequest(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Generator: func() string { return "rid-42" }}))
	app.Use(func(c fiber.Ctx) error {
		c.Locals("user_id", "u-42")
		BindRequest(c)
		return c.Next()
	})
	app.Get("/", func(c fiber.Ctx) error {
		entry := WithContext(c.Context())
		rid, _ := entry.Data["request_id"].(string)
		uid, _ := entry.Data["user_id"].(string)
		return c.SendString(rid + "|" + uid)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "rid-42|u-42", string(raw))
}
