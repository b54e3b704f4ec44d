// Package router đăng ký các route thuộc domain video.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	apirouter "vidtube/internal/api/router"
	usermodels "vidtube/internal/api/user/models"
	videohdl "vidtube/internal/api/video/handler"
	videomodels "vidtube/internal/api/video/models"
	videosvc "vidtube/internal/api/video/service"
	"vidtube/internal/database"
)

// Register đăng ký route /videos lên v1, mọi route đều yêu cầu đăng nhập
func Register(v1 fiber.Router, r *apirouter.Router) error {
	deps := r.Deps()
	store := deps.Store
	videoService := videosvc.NewVideoService(videosvc.Repositories{
		Videos:   basesvc.NewBaseServiceMongo[videomodels.Video](store.Collection(database.ColVideos)),
		Users:    basesvc.NewBaseServiceMongo[usermodels.User](store.Collection(database.ColUsers)),
		Comments: basesvc.NewBaseServiceMongo[commentmodels.Comment](store.Collection(database.ColComments)),
		Likes:    basesvc.NewBaseServiceMongo[likemodels.Like](store.Collection(database.ColLikes)),
	}, deps.Media, deps.Cache, store, videosvc.SearchConfig{
		Mode:  deps.Config.SearchMode,
		Index: deps.Config.SearchIndex,
	})
	videoHandler := videohdl.NewVideoHandler(r.BaseHandler(), videoService)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "/", auth, videoHandler.HandleListVideos)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "POST", "/", auth, videoHandler.HandlePublishVideo)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "PATCH", "/toggle/publish/:videoId", auth, videoHandler.HandleTogglePublishStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "/:videoId", auth, videoHandler.HandleGetVideoByID)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "PATCH", "/:videoId", auth, videoHandler.HandleUpdateVideo)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "DELETE", "/:videoId", auth, videoHandler.HandleDeleteVideo)
	return nil
}
