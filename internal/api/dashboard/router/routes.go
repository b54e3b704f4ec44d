// Package router đăng ký các route thuộc dashboard.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	dashboardhdl "vidtube/internal/api/dashboard/handler"
	dashboardsvc "vidtube/internal/api/dashboard/service"
	apirouter "vidtube/internal/api/router"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/database"
)

// Register đăng ký route /dashboard lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	deps := r.Deps()
	dashboardService := dashboardsvc.NewDashboardService(
		basesvc.NewBaseServiceMongo[videomodels.Video](deps.Store.Collection(database.ColVideos)),
		basesvc.NewBaseServiceMongo[subscriptionmodels.Subscription](deps.Store.Collection(database.ColSubscriptions)),
		deps.Cache,
	)
	dashboardHandler := dashboardhdl.NewDashboardHandler(r.BaseHandler(), dashboardService)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/stats", auth, dashboardHandler.HandleGetChannelStats)
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/videos", auth, dashboardHandler.HandleGetChannelVideos)
	return nil
}
