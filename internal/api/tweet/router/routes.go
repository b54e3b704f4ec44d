// Package router đăng ký các route thuộc domain tweet.
package router

import (
	"github.com/gofiber/fiber/v3"

	basesvc "vidtube/internal/api/base/service"
	likemodels "vidtube/internal/api/like/models"
	apirouter "vidtube/internal/api/router"
	tweethdl "vidtube/internal/api/tweet/handler"
	tweetmodels "vidtube/internal/api/tweet/models"
	tweetsvc "vidtube/internal/api/tweet/service"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/database"
)

// Register đăng ký route /tweets lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	store := r.Deps().Store
	tweetService := tweetsvc.NewTweetService(
		basesvc.NewBaseServiceMongo[tweetmodels.Tweet](store.Collection(database.ColTweets)),
		basesvc.NewBaseServiceMongo[usermodels.User](store.Collection(database.ColUsers)),
		basesvc.NewBaseServiceMongo[likemodels.Like](store.Collection(database.ColLikes)),
	)
	tweetHandler := tweethdl.NewTweetHandler(r.BaseHandler(), tweetService)

	auth := r.Auth()
	apirouter.RegisterRouteWithMiddleware(v1, "/tweets", "POST", "/", auth, tweetHandler.HandleCreateTweet)
	apirouter.RegisterRouteWithMiddleware(v1, "/tweets", "GET", "/user/:userId", auth, tweetHandler.HandleGetUserTweets)
	apirouter.RegisterRouteWithMiddleware(v1, "/tweets", "PATCH", "/:tweetId", auth, tweetHandler.HandleUpdateTweet)
	apirouter.RegisterRouteWithMiddleware(v1, "/tweets", "DELETE", "/:tweetId", auth, tweetHandler.HandleDeleteTweet)
	return nil
}
