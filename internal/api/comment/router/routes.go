// Package router đăng ký các route thuộc domain comment.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	commenthdl "vidtube/internal/api/comment/handler"
	commentmodels "vidtube/internal/api/comment/models"
	commentsvc "vidtube/internal/api/comment/service"
	likemodels "vidtube/internal/api/like/models"
	apirouter "vidtube/internal/api/router"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/database"
)

// Register đăng ký route /comments lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	store := r.Deps().Store
	commentService := commentsvc.NewCommentService(
		basesvc.NewBaseServiceMongo[commentmodels.Comment](store.Collection(database.ColComments)),
		basesvc.NewBaseServiceMongo[videomodels.Video](store.Collection(database.ColVideos)),
		basesvc.NewBaseServiceMongo[likemodels.Like](store.Collection(database.ColLikes)),
	)
	commentHandler := commenthdl.NewCommentHandler(r.BaseHandler(), commentService)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/comments", "PATCH", "/c/:commentId", auth, commentHandler.HandleUpdateComment)
	apirouter.RegisterRouteWithMiddleware(v1, "/comments", "DELETE", "/c/:commentId", auth, commentHandler.HandleDeleteComment)
	apirouter.RegisterRouteWithMiddleware(v1, "/comments", "GET", "/:videoId", auth, commentHandler.HandleListVideoComments)
	apirouter.RegisterRouteWithMiddleware(v1, "/comments", "POST", "/:videoId", auth, commentHandler.HandleAddComment)
	return nil
}
