// Package router đăng ký các route thuộc domain user.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	apirouter "vidtube/internal/api/router"
	userhdl "vidtube/internal/api/user/handler"
	usermodels "vidtube/internal/api/user/models"
	usersvc "vidtube/internal/api/user/service"
	"vidtube/internal/database"
)

// Register đăng ký route /users lên v1. register, login, refresh-token là public.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	deps := r.Deps()
	tokens := usersvc.TokenConfigFrom(deps.Config)
	users := basesvc.NewBaseServiceMongo[usermodels.User](deps.Store.Collection(database.ColUsers))
	userHandler := userhdl.NewUserHandler(
		r.BaseHandler(),
		usersvc.NewUserService(users, deps.Media, tokens),
		tokens,
		deps.Config.CookieSecure,
	)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/register", nil, userHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/login", nil, userHandler.HandleLogin)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/refresh-token", nil, userHandler.HandleRefreshToken)

	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/logout", auth, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/change-password", auth, userHandler.HandleChangePassword)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/current-user", auth, userHandler.HandleGetCurrentUser)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "PATCH", "/update-account", auth, userHandler.HandleUpdateAccount)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "PATCH", "/avatar", auth, userHandler.HandleUpdateAvatar)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "PATCH", "/cover-image", auth, userHandler.HandleUpdateCoverImage)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/c/:username", auth, userHandler.HandleGetChannelProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/history", auth, userHandler.HandleGetWatchHistory)
	return nil
}
