// Package router đăng ký các route thuộc domain like.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	commentmodels "vidtube/internal/api/comment/models"
	likehdl "vidtube/internal/api/like/handler"
	likemodels "vidtube/internal/api/like/models"
	likesvc "vidtube/internal/api/like/service"
	apirouter "vidtube/internal/api/router"
	tweetmodels "vidtube/internal/api/tweet/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/database"
)

// Register đăng ký route /likes lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	deps := r.Deps()
	store := deps.Store
	likeService := likesvc.NewLikeService(
		basesvc.NewBaseServiceMongo[likemodels.Like](store.Collection(database.ColLikes)),
		basesvc.NewBaseServiceMongo[videomodels.Video](store.Collection(database.ColVideos)),
		basesvc.NewBaseServiceMongo[commentmodels.Comment](store.Collection(database.ColComments)),
		basesvc.NewBaseServiceMongo[tweetmodels.Tweet](store.Collection(database.ColTweets)),
		deps.Cache,
	)
	likeHandler := likehdl.NewLikeHandler(r.BaseHandler(), likeService)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/likes", "POST", "/toggle/v/:videoId", auth, likeHandler.HandleToggleVideoLike)
	apirouter.RegisterRouteWithMiddleware(v1, "/likes", "POST", "/toggle/c/:commentId", auth, likeHandler.HandleToggleCommentLike)
	apirouter.RegisterRouteWithMiddleware(v1, "/likes", "POST", "/toggle/t/:tweetId", auth, likeHandler.HandleToggleTweetLike)
	apirouter.RegisterRouteWithMiddleware(v1, "/likes", "GET", "/videos", auth, likeHandler.HandleGetLikedVideos)
	return nil
}
