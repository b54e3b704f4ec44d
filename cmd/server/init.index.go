package main

import (
	"context"

	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	playlistmodels "vidtube/internal/api/playlist/models"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	tweetmodels "vidtube/internal/api/tweet/models"
	usermodels "vidtube/internal/api/user/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/database"
	"vidtube/internal/logger"
)

// collectionModels: model khai báo index (tag `index`) cho từng collection
var collectionModels = map[string]interface{}{
	database.ColUsers:         usermodels.User{},
	database.ColVideos:        videomodels.Video{},
	database.ColComments:      commentmodels.Comment{},
	database.ColLikes:         likemodels.Like{},
	database.ColSubscriptions: subscriptionmodels.Subscription{},
	database.ColPlaylists:     playlistmodels.Playlist{},
	database.ColTweets:        tweetmodels.Tweet{},
}

// initIndexes tạo/cập nhật index theo tag của model. Lỗi index không chặn khởi động.
func initIndexes(ctx context.Context, store *database.Store) {
	for _, name := range database.AllCollections {
		model, ok := collectionModels[name]
		if !ok {
			continue
		}
		if err := database.CreateIndexes(ctx, store.Collection(name), model); err != nil {
			logger.WithCollection(name).WithError(err).Error("Failed to create indexes")
		}
	}
	logger.GetAppLogger().Info("Ensured indexes")
}
