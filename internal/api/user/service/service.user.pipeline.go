package usersvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "vidtube/internal/api/base/service"
	"vidtube/internal/common"
	"vidtube/internal/database"
	"vidtube/internal/utility"
)

// channelProfilePipeline: user theo username + số người đăng ký, số kênh đang theo dõi, viewer đã đăng ký chưa
func channelProfilePipeline(username string, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"username": utility.NormalizeUsername(username)}),
		basesvc.LookupStage(database.ColSubscriptions, "_id", "channel", "subscribers"),
		basesvc.LookupStage(database.ColSubscriptions, "_id", "subscriber", "subscribedTo"),
		basesvc.AddFieldsStage(bson.D{
			{Key: "subscribersCount", Value: basesvc.SizeOf("subscribers")},
			{Key: "channelsSubscribedToCount", Value: basesvc.SizeOf("subscribedTo")},
			{Key: "isSubscribed", Value: basesvc.IsIn(viewer, "$subscribers.subscriber")},
		}),
		basesvc.ProjectStage(bson.D{
			{Key: "fullName", Value: 1},
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "coverImage", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "channelsSubscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
			{Key: "createdAt", Value: 1},
		}),
	}
}

// watchHistoryPipeline: danh sách video trong watchHistory kèm thông tin chủ video
func watchHistoryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"_id": userID}),
		basesvc.LookupStage(database.ColVideos, "watchHistory", "_id", "watchHistory",
			basesvc.LookupStage(database.ColUsers, "owner", "_id", "owner",
				basesvc.ProjectStage(bson.D{
					{Key: "fullName", Value: 1},
					{Key: "username", Value: 1},
					{Key: "avatar", Value: 1},
				}),
			),
			basesvc.AddFieldsStage(bson.D{{Key: "owner", Value: basesvc.FirstOf("owner")}}),
		),
		basesvc.ProjectStage(bson.D{{Key: "watchHistory", Value: 1}}),
	}
}

// GetChannelProfile trả về hồ sơ kênh theo username, 404 nếu không tồn tại
func (s *UserService) GetChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (bson.M, error) {
	if utility.NormalizeUsername(username) == "" {
		return nil, common.NewValidationError("Thiếu username", nil)
	}
	docs, err := s.users.Aggregate(ctx, channelProfilePipeline(username, viewer))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, common.NewNotFoundError("Kênh không tồn tại")
	}
	return docs[0], nil
}

// GetWatchHistory trả về lịch sử xem của user (thứ tự theo $lookup, không đảm bảo thứ tự xem)
func (s *UserService) GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]interface{}, error) {
	docs, err := s.users.Aggregate(ctx, watchHistoryPipeline(userID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, common.NewNotFoundError("Không tìm thấy người dùng")
	}
	history, ok := docs[0]["watchHistory"].(bson.A)
	if !ok || history == nil {
		return []interface{}{}, nil
	}
	return []interface{}(history), nil
}
