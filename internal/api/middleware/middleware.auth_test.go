package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
	"vidtube/internal/utility"
)

type stubResolver struct {
	users map[primitive.ObjectID]*usermodels.User
}

func (s stubResolver) ResolveAuthUser(_ context.Context, id primitive.ObjectID) (*usermodels.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrTokenInvalid
}

func newAuthApp(t *testing.T, user *usermodels.User) *fiber.App {
	t.Helper()
	app := fiber.New()
	resolver := stubResolver{users: map[primitive.ObjectID]*usermodels.User{user.ID: user}}
	app.Get("/me", func(c fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(fiber.Map{"username": u.Username, "id": c.Locals(LocalUserID)})
	}, AuthMiddleware("secret", resolver))
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestAuthMiddleware(t *testing.T) {
	user := &usermodels.User{ID: primitive.NewObjectID(), Username: "alice"}
	app := newAuthApp(t, user)

	token, err := utility.GenerateToken(utility.TokenClaims{ID: user.ID.Hex(), Username: "alice"}, "secret", time.Minute)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", decodeBody(t, resp)["username"])
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("thiếu token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, common.ErrCodeAuthToken.Code, body["code"])
	})

	t.Run("user không còn tồn tại", func(t *testing.T) {
		ghost, err := utility.GenerateToken(utility.TokenClaims{ID: primitive.NewObjectID().Hex()}, "secret", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+ghost)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestExtractToken_IgnoresOtherSchemes(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error { return c.SendString(ExtractToken(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Empty(t, string(raw))
}
