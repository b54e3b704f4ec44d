package playlistsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	"vidtube/internal/common"
	"vidtube/internal/database"
)

// Chỉ tính video đã publish
var publishedOnly = basesvc.MatchStage(bson.M{"isPublished": true})

var ownerSummary = basesvc.ProjectStage(bson.D{
	{Key: "username", Value: 1},
	{Key: "fullName", Value: 1},
	{Key: "avatar.url", Value: 1},
})

// userPlaylistsPipeline: playlist của user kèm tổng số video và tổng lượt xem
func userPlaylistsPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"owner": userID}),
		basesvc.LookupStage(database.ColVideos, "videos", "_id", "videos", publishedOnly),
		basesvc.AddFieldsStage(bson.D{
			{Key: "totalVideos", Value: basesvc.SizeOf("videos")},
			{Key: "totalViews", Value: basesvc.SumOf("videos.views")},
		}),
		basesvc.SortStage("", "", nil, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "totalVideos", Value: 1},
			{Key: "totalViews", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "updatedAt", Value: 1},
		}),
	}
}

// playlistDetailsPipeline: chi tiết playlist, mỗi video kèm thông tin chủ video
func playlistDetailsPipeline(playlistID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"_id": playlistID}),
		basesvc.LookupStage(database.ColVideos, "videos", "_id", "videos",
			publishedOnly,
			basesvc.LookupStage(database.ColUsers, "owner", "_id", "owner", ownerSummary),
			basesvc.AddFieldsStage(bson.D{{Key: "owner", Value: basesvc.FirstOf("owner")}}),
		),
		basesvc.LookupStage(database.ColUsers, "owner", "_id", "owner", ownerSummary),
		basesvc.AddFieldsStage(bson.D{
			{Key: "totalVideos", Value: basesvc.SizeOf("videos")},
			{Key: "totalViews", Value: basesvc.SumOf("videos.views")},
			{Key: "owner", Value: basesvc.FirstOf("owner")},
		}),
		basesvc.ProjectStage(bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "updatedAt", Value: 1},
			{Key: "totalVideos", Value: 1},
			{Key: "totalViews", Value: 1},
			{Key: "videos._id", Value: 1},
			{Key: "videos.videoFile.url", Value: 1},
			{Key: "videos.thumbnail.url", Value: 1},
			{Key: "videos.title", Value: 1},
			{Key: "videos.description", Value: 1},
			{Key: "videos.duration", Value: 1},
			{Key: "videos.views", Value: 1},
			{Key: "videos.createdAt", Value: 1},
			{Key: "videos.owner", Value: 1},
			{Key: "owner", Value: 1},
		}),
	}
}

// GetUserPlaylists danh sách playlist của user (phân trang)
func (s *PlaylistService) GetUserPlaylists(ctx context.Context, userID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	return s.playlists.AggregatePaginate(ctx, userPlaylistsPipeline(userID), page, limit)
}

// GetPlaylistByID chi tiết một playlist, 404 khi không tồn tại
func (s *PlaylistService) GetPlaylistByID(ctx context.Context, playlistID primitive.ObjectID) (bson.M, error) {
	docs, err := s.playlists.Aggregate(ctx, playlistDetailsPipeline(playlistID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, common.NewNotFoundError("Playlist không tồn tại")
	}
	return docs[0], nil
}
