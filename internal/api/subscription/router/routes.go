// Package router đăng ký các route thuộc domain subscription.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	apirouter "vidtube/internal/api/router"
	subscriptionhdl "vidtube/internal/api/subscription/handler"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	subscriptionsvc "vidtube/internal/api/subscription/service"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/database"
)

// Register đăng ký route /subscriptions lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	deps := r.Deps()
	subscriptionService := subscriptionsvc.NewSubscriptionService(
		basesvc.NewBaseServiceMongo[subscriptionmodels.Subscription](deps.Store.Collection(database.ColSubscriptions)),
		basesvc.NewBaseServiceMongo[usermodels.User](deps.Store.Collection(database.ColUsers)),
		deps.Cache,
	)
	subscriptionHandler := subscriptionhdl.NewSubscriptionHandler(r.BaseHandler(), subscriptionService)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/subscriptions", "POST", "/c/:channelId", auth, subscriptionHandler.HandleToggleSubscription)
	apirouter.RegisterRouteWithMiddleware(v1, "/subscriptions", "GET", "/c/:channelId", auth, subscriptionHandler.HandleGetChannelSubscribers)
	apirouter.RegisterRouteWithMiddleware(v1, "/subscriptions", "GET", "/u/:subscriberId", auth, subscriptionHandler.HandleGetSubscribedChannels)
	return nil
}
