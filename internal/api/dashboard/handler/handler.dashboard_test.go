package dashboardhdl

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
	dashboardsvc "vidtube/internal/api/dashboard/service"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	videomodels "vidtube/internal/api/video/models"
)

func TestHandleGetChannelStats_EmptyChannel(t *testing.T) {
	owner := primitive.NewObjectID()
	subs := basesvctest.New[subscriptionmodels.Subscription]()
	subs.Seed(subscriptionmodels.Subscription{Subscriber: primitive.NewObjectID(), Channel: owner})
	svc := dashboardsvc.NewDashboardService(basesvctest.New[videomodels.Video](), subs, nil)
	h := NewDashboardHandler(basehdl.NewBaseHandler(100), svc)

	app := fiber.New()
	app.Get("/dashboard/stats", h.HandleGetChannelStats, func(c fiber.Ctx) error {
		c.Locals("user_id", owner.Hex())
		return c.Next()
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Success bool                      `json:"success"`
		Data    dashboardsvc.ChannelStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)
	assert.Equal(t, dashboardsvc.ChannelStats{TotalSubscribers: 1}, body.Data)
}

func TestHandleGetChannelStats_RequiresUser(t *testing.T) {
	svc := dashboardsvc.NewDashboardService(basesvctest.New[videomodels.Video](),
		basesvctest.New[subscriptionmodels.Subscription](), nil)
	h := NewDashboardHandler(basehdl.NewBaseHandler(100), svc)

	app := fiber.New()
	app.Get("/dashboard/stats", h.HandleGetChannelStats)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
