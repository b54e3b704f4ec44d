package videosvc

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

// Các field được phép dùng làm sortBy khi liệt kê video
var listSortFields = []string{"createdAt", "views", "duration", "title"}

// ListParams bộ lọc danh sách video
type ListParams struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Page     int64
	Limit    int64
}

// ownerSummaryProjection: thông tin chủ kênh kèm theo mỗi video
var ownerSummaryProjection = bson.D{
	{Key: "username", Value: 1},
	{Key: "fullName", Value: 1},
	{Key: "avatar.url", Value: 1},
}

// listVideosPipeline: [search] → [owner] → isPublished → sort → join owner → project
func listVideosPipeline(p ListParams, search SearchConfig) (mongo.Pipeline, error) {
	pipeline := mongo.Pipeline{}
	if p.Query != "" {
		pipeline = append(pipeline, basesvc.SearchStage(search.Mode, search.Index, p.Query, []string{"title", "description"}))
	}

	match := bson.M{"isPublished": true}
	if p.UserID != "" {
		owner, err := primitive.ObjectIDFromHex(p.UserID)
		if err != nil {
			return nil, common.NewValidationError("userId không đúng định dạng MongoDB ObjectID", nil)
		}
		match["owner"] = owner
	}
	pipeline = append(pipeline,
		basesvc.MatchStage(match),
		basesvc.SortStage(p.SortBy, p.SortType, listSortFields, "createdAt"),
		basesvc.LookupStage(database.ColUsers, "owner", "_id", "ownerDetails",
			basesvc.ProjectStage(ownerSummaryProjection),
		),
		basesvc.UnwindStage("ownerDetails", false),
		basesvc.ProjectStage(bson.D{
			{Key: "videoFile", Value: 1},
			{Key: "thumbnail", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "duration", Value: 1},
			{Key: "views", Value: 1},
			{Key: "isPublished", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "ownerDetails", Value: 1},
			{Key: "createdAt", Value: 1},
		}),
	)
	return pipeline, nil
}

// videoDetailsPipeline: video (đã publish hoặc của chính viewer) + likes + chủ kênh kèm số người đăng ký
func videoDetailsPipeline(videoID, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{
			"_id": videoID,
			"$or": bson.A{
				bson.M{"isPublished": true},
				bson.M{"owner": viewer},
			},
		}),
		basesvc.LookupStage(database.ColLikes, "_id", "video", "likes"),
		basesvc.LookupStage(database.ColUsers, "owner", "_id", "owner",
			basesvc.LookupStage(database.ColSubscriptions, "_id", "channel", "subscribers"),
			basesvc.AddFieldsStage(bson.D{
				{Key: "subscribersCount", Value: basesvc.SizeOf("subscribers")},
				{Key: "isSubscribed", Value: basesvc.IsIn(viewer, "$subscribers.subscriber")},
			}),
			basesvc.ProjectStage(bson.D{
				{Key: "username", Value: 1},
				{Key: "fullName", Value: 1},
				{Key: "avatar.url", Value: 1},
				{Key: "subscribersCount", Value: 1},
				{Key: "isSubscribed", Value: 1},
			}),
		),
		basesvc.AddFieldsStage(bson.D{
			{Key: "likesCount", Value: basesvc.SizeOf("likes")},
			{Key: "owner", Value: basesvc.FirstOf("owner")},
			{Key: "isLiked", Value: basesvc.IsIn(viewer, "$likes.likedBy")},
		}),
		basesvc.ProjectStage(bson.D{
			{Key: "videoFile.url", Value: 1},
			{Key: "thumbnail.url", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "views", Value: 1},
			{Key: "duration", Value: 1},
			{Key: "isPublished", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "isLiked", Value: 1},
		}),
	}
}

// ListVideos liệt kê video đã publish, có tìm kiếm, lọc theo chủ kênh và phân trang
func (s *VideoService) ListVideos(ctx context.Context, p ListParams) (*basemodels.PaginateResult[bson.M], error) {
	pipeline, err := listVideosPipeline(p, s.search)
	if err != nil {
		return nil, err
	}
	return s.repos.Videos.AggregatePaginate(ctx, pipeline, p.Page, p.Limit)
}
