// Package tweetsvc chứa logic nghiệp vụ của domain tweet.
package tweetsvc

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "vidtube/internal/api/base/service"
	likemodels "vidtube/internal/api/like/models"
	tweetmodels "vidtube/internal/api/tweet/models"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
	"vidtube/internal/database"
	"vidtube/internal/logger"
)

// TweetService xử lý nghiệp vụ tweet
type TweetService struct {
	tweets basesvc.BaseServiceMongo[tweetmodels.Tweet]
	users  basesvc.BaseServiceMongo[usermodels.User]
	likes  basesvc.BaseServiceMongo[likemodels.Like]
}

// NewTweetService tạo TweetService
func NewTweetService(
	tweets basesvc.BaseServiceMongo[tweetmodels.Tweet],
	users basesvc.BaseServiceMongo[usermodels.User],
	likes basesvc.BaseServiceMongo[likemodels.Like],
) *TweetService {
	return &TweetService{tweets: tweets, users: users, likes: likes}
}

// userTweetsPipeline: tweet của một user, mới nhất trước, kèm chủ sở hữu và like
func userTweetsPipeline(userID, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"owner": userID}),
		basesvc.LookupStage(database.ColUsers, "owner", "_id", "ownerDetails",
			basesvc.ProjectStage(bson.D{
				{Key: "username", Value: 1},
				{Key: "avatar.url", Value: 1},
			}),
		),
		basesvc.LookupStage(database.ColLikes, "_id", "tweet", "likeDetails",
			basesvc.ProjectStage(bson.D{{Key: "likedBy", Value: 1}}),
		),
		basesvc.AddFieldsStage(bson.D{
			{Key: "likesCount", Value: basesvc.SizeOf("likeDetails")},
			{Key: "ownerDetails", Value: basesvc.FirstOf("ownerDetails")},
			{Key: "isLiked", Value: basesvc.IsIn(viewer, "$likeDetails.likedBy")},
		}),
		basesvc.SortStage("", "", nil, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "content", Value: 1},
			{Key: "ownerDetails", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "isLiked", Value: 1},
		}),
	}
}

// CreateTweet tạo tweet mới
func (s *TweetService) CreateTweet(ctx context.Context, actor primitive.ObjectID, content string) (*tweetmodels.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewValidationError("Nội dung tweet là bắt buộc", nil)
	}
	created, err := s.tweets.InsertOne(ctx, tweetmodels.Tweet{Content: content, Owner: actor})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetUserTweets danh sách tweet của user (404 nếu user không tồn tại)
func (s *TweetService) GetUserTweets(ctx context.Context, userID, viewer primitive.ObjectID) ([]bson.M, error) {
	exists, err := s.users.DocumentExists(ctx, bson.M{"_id": userID})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NewNotFoundError("Không tìm thấy người dùng")
	}
	return s.tweets.Aggregate(ctx, userTweetsPipeline(userID, viewer))
}

func (s *TweetService) loadOwned(ctx context.Context, tweetID, actor primitive.ObjectID) (*tweetmodels.Tweet, error) {
	tweet, err := s.tweets.FindOneById(ctx, tweetID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("Tweet không tồn tại")
		}
		return nil, err
	}
	if tweet.Owner != actor {
		return nil, common.NewForbiddenError("Bạn không phải chủ sở hữu tweet này")
	}
	return &tweet, nil
}

// UpdateTweet sửa nội dung tweet, chỉ chủ sở hữu
func (s *TweetService) UpdateTweet(ctx context.Context, tweetID, actor primitive.ObjectID, content string) (*tweetmodels.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewValidationError("Nội dung tweet là bắt buộc", nil)
	}
	if _, err := s.loadOwned(ctx, tweetID, actor); err != nil {
		return nil, err
	}
	updated, err := s.tweets.UpdateById(ctx, tweetID, bson.M{"content": content})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTweet xóa tweet và các like trên tweet
func (s *TweetService) DeleteTweet(ctx context.Context, tweetID, actor primitive.ObjectID) error {
	if _, err := s.loadOwned(ctx, tweetID, actor); err != nil {
		return err
	}
	if err := s.tweets.DeleteById(ctx, tweetID); err != nil {
		return err
	}
	if _, err := s.likes.DeleteMany(ctx, bson.M{"tweet": tweetID}); err != nil {
		logger.WithModule(ctx, "tweet").WithError(err).WithField("tweetId", tweetID.Hex()).Error("Failed to delete tweet likes")
	}
	return nil
}
