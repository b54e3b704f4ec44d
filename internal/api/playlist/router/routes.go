// Package router đăng ký các route thuộc domain playlist.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	playlisthdl "vidtube/internal/api/playlist/handler"
	playlistmodels "vidtube/internal/api/playlist/models"
	playlistsvc "vidtube/internal/api/playlist/service"
	apirouter "vidtube/internal/api/router"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/database"
)

// Register đăng ký route /playlist lên v1, tất cả đều cần đăng nhập
func Register(v1 fiber.Router, r *apirouter.Router) error {
	deps := r.Deps()
	playlistService := playlistsvc.NewPlaylistService(
		basesvc.NewBaseServiceMongo[playlistmodels.Playlist](deps.Store.Collection(database.ColPlaylists)),
		basesvc.NewBaseServiceMongo[videomodels.Video](deps.Store.Collection(database.ColVideos)),
	)
	playlistHandler := playlisthdl.NewPlaylistHandler(r.BaseHandler(), playlistService)

	const prefix = "/playlist"
	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/", auth, playlistHandler.HandleCreatePlaylist)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "GET", "/user/:userId", auth, playlistHandler.HandleGetUserPlaylists)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "PATCH", "/add/:videoId/:playlistId", auth, playlistHandler.HandleAddVideo)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "PATCH", "/remove/:videoId/:playlistId", auth, playlistHandler.HandleRemoveVideo)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "GET", "/:playlistId", auth, playlistHandler.HandleGetPlaylistByID)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "PATCH", "/:playlistId", auth, playlistHandler.HandleUpdatePlaylist)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "DELETE", "/:playlistId", auth, playlistHandler.HandleDeletePlaylist)
	return nil
}
