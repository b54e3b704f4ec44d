package subscriptionhdl

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "vidtube/internal/api/base/handler"
	"vidtube/internal/api/base/service/basesvctest"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	subscriptionsvc "vidtube/internal/api/subscription/service"
	usermodels "vidtube/internal/api/user/models"
)

func TestHandleToggleSubscription(t *testing.T) {
	users := basesvctest.New[usermodels.User]()
	seeded := users.Seed(usermodels.User{Username: "channel"}, usermodels.User{Username: "fan"})
	channel, fan := seeded[0], seeded[1]
	svc := subscriptionsvc.NewSubscriptionService(basesvctest.New[subscriptionmodels.Subscription](), users, nil)
	h := NewSubscriptionHandler(basehdl.NewBaseHandler(100), svc)

	app := fiber.New()
	app.Post("/subscriptions/c/:channelId", h.HandleToggleSubscription, func(c fiber.Ctx) error {
		c.Locals("user_id", fan.ID.Hex())
		return c.Next()
	})

	toggle := func(channelID string) (int, map[string]interface{}) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/subscriptions/c/"+channelID, nil))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		body := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(raw, &body))
		return resp.StatusCode, body
	}

	status, body := toggle(channel.ID.Hex())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]interface{})["subscribed"])

	status, body = toggle(channel.ID.Hex())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["data"].(map[string]interface{})["subscribed"])

	status, _ = toggle(fan.ID.Hex())
	assert.Equal(t, http.StatusBadRequest, status, "không tự đăng ký kênh của mình")

	status, _ = toggle("xyz")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleSubscriptionLists(t *testing.T) {
	users := basesvctest.New[usermodels.User]()
	channel := users.Seed(usermodels.User{Username: "channel"})[0]
	svc := subscriptionsvc.NewSubscriptionService(basesvctest.New[subscriptionmodels.Subscription](), users, nil)
	h := NewSubscriptionHandler(basehdl.NewBaseHandler(100), svc)

	app := fiber.New()
	app.Get("/subscriptions/c/:channelId", h.HandleGetChannelSubscribers, func(c fiber.Ctx) error {
		c.Locals("user_id", primitive.NewObjectID().Hex())
		return c.Next()
	})
	app.Get("/subscriptions/u/:subscriberId", h.HandleGetSubscribedChannels)

	get := func(path string) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNotFound, get("/subscriptions/c/"+primitive.NewObjectID().Hex()))
	assert.Equal(t, http.StatusNotFound, get("/subscriptions/u/"+primitive.NewObjectID().Hex()))
	assert.Equal(t, http.StatusOK, get("/subscriptions/c/"+channel.ID.Hex()))
	assert.Equal(t, http.StatusOK, get("/subscriptions/u/"+channel.ID.Hex()+"?page=100000000000000000&limit=100"))
}
