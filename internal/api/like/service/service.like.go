// Package likesvc chứa logic nghiệp vụ của domain like: toggle like trên video, comment, tweet.
package likesvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "vidtube/internal/api/base/service"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	tweetmodels "vidtube/internal/api/tweet/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/cache"
	"vidtube/internal/common"
	"vidtube/internal/database"
)

// LikeTarget loại đối tượng được like
type LikeTarget int

// Các loại đối tượng có thể like
const (
	TargetVideo LikeTarget = iota + 1
	TargetComment
	TargetTweet
)

// field là tên field tham chiếu trong document like
func (t LikeTarget) field() string {
	switch t {
	case TargetVideo:
		return "video"
	case TargetComment:
		return "comment"
	case TargetTweet:
		return "tweet"
	}
	return ""
}

func (t LikeTarget) String() string {
	if f := t.field(); f != "" {
		return f
	}
	return fmt.Sprintf("LikeTarget(%d)", int(t))
}

// LikeService xử lý nghiệp vụ like
type LikeService struct {
	likes    basesvc.BaseServiceMongo[likemodels.Like]
	videos   basesvc.BaseServiceMongo[videomodels.Video]
	comments basesvc.BaseServiceMongo[commentmodels.Comment]
	tweets   basesvc.BaseServiceMongo[tweetmodels.Tweet]
	stats    *cache.StatsCache
}

// NewLikeService tạo LikeService. stats có thể nil.
func NewLikeService(
	likes basesvc.BaseServiceMongo[likemodels.Like],
	videos basesvc.BaseServiceMongo[videomodels.Video],
	comments basesvc.BaseServiceMongo[commentmodels.Comment],
	tweets basesvc.BaseServiceMongo[tweetmodels.Tweet],
	stats *cache.StatsCache,
) *LikeService {
	return &LikeService{likes: likes, videos: videos, comments: comments, tweets: tweets, stats: stats}
}

// ensureTarget kiểm tra đối tượng tồn tại. Với video trả thêm owner để làm mới cache thống kê kênh.
func (s *LikeService) ensureTarget(ctx context.Context, target LikeTarget, targetID primitive.ObjectID) (primitive.ObjectID, error) {
	var (
		exists bool
		owner  primitive.ObjectID
		err    error
	)
	switch target {
	case TargetVideo:
		var video videomodels.Video
		video, err = s.videos.FindOneById(ctx, targetID)
		exists, owner = err == nil, video.Owner
		if common.IsNotFound(err) {
			err = nil
		}
	case TargetComment:
		exists, err = s.comments.DocumentExists(ctx, bson.M{"_id": targetID})
	case TargetTweet:
		exists, err = s.tweets.DocumentExists(ctx, bson.M{"_id": targetID})
	default:
		return owner, common.NewValidationError("Loại đối tượng like không hợp lệ", nil)
	}
	if err != nil {
		return owner, err
	}
	if !exists {
		return owner, common.NewNotFoundError(fmt.Sprintf("Không tìm thấy %s", target))
	}
	return owner, nil
}

// Toggle: đã like => bỏ like, chưa like => like. Trả về trạng thái sau khi toggle.
// Hai request đồng thời của cùng actor có thể cùng tạo like (không có unique index).
func (s *LikeService) Toggle(ctx context.Context, target LikeTarget, targetID, actor primitive.ObjectID) (bool, error) {
	owner, err := s.ensureTarget(ctx, target, targetID)
	if err != nil {
		return false, err
	}

	existing, err := s.likes.FindOne(ctx, bson.M{target.field(): targetID, "likedBy": actor}, nil)
	switch {
	case err == nil:
		if err := s.likes.DeleteById(ctx, existing.ID); err != nil {
			return false, err
		}
		s.invalidate(ctx, target, owner)
		return false, nil
	case !common.IsNotFound(err):
		return false, err
	}

	like := likemodels.Like{LikedBy: actor}
	id := targetID
	switch target {
	case TargetVideo:
		like.Video = &id
	case TargetComment:
		like.Comment = &id
	case TargetTweet:
		like.Tweet = &id
	}
	if _, err := s.likes.InsertOne(ctx, like); err != nil {
		return false, err
	}
	s.invalidate(ctx, target, owner)
	return true, nil
}

func (s *LikeService) invalidate(ctx context.Context, target LikeTarget, owner primitive.ObjectID) {
	if target == TargetVideo && !owner.IsZero() {
		s.stats.InvalidateChannel(ctx, owner)
	}
}

// likedVideosPipeline: video actor đã like, like mới nhất trước, kèm chủ kênh
func likedVideosPipeline(actor primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"likedBy": actor, "video": bson.M{"$exists": true}}),
		basesvc.LookupStage(database.ColVideos, "video", "_id", "likedVideo",
			basesvc.LookupStage(database.ColUsers, "owner", "_id", "ownerDetails",
				basesvc.ProjectStage(bson.D{
					{Key: "username", Value: 1},
					{Key: "fullName", Value: 1},
					{Key: "avatar.url", Value: 1},
				}),
			),
			basesvc.UnwindStage("ownerDetails", false),
		),
		basesvc.UnwindStage("likedVideo", false),
		basesvc.SortStage("", "", nil, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "_id", Value: 0},
			{Key: "likedVideo._id", Value: 1},
			{Key: "likedVideo.videoFile.url", Value: 1},
			{Key: "likedVideo.thumbnail.url", Value: 1},
			{Key: "likedVideo.owner", Value: 1},
			{Key: "likedVideo.title", Value: 1},
			{Key: "likedVideo.description", Value: 1},
			{Key: "likedVideo.views", Value: 1},
			{Key: "likedVideo.duration", Value: 1},
			{Key: "likedVideo.createdAt", Value: 1},
			{Key: "likedVideo.isPublished", Value: 1},
			{Key: "likedVideo.ownerDetails", Value: 1},
		}),
	}
}

// GetLikedVideos danh sách video actor đã like
func (s *LikeService) GetLikedVideos(ctx context.Context, actor primitive.ObjectID) ([]bson.M, error) {
	return s.likes.Aggregate(ctx, likedVideosPipeline(actor))
}
