// Package dashboardsvc thống kê kênh cho chủ kênh đang đăng nhập.
package dashboardsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/cache"
	"vidtube/internal/database"
	"vidtube/internal/logger"
)

// ChannelStats thống kê tổng của một kênh
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos" bson:"totalVideos"`
	TotalViews       int64 `json:"totalViews" bson:"totalViews"`
	TotalLikes       int64 `json:"totalLikes" bson:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers" bson:"totalSubscribers"`
}

// DashboardService tính thống kê và danh sách video của chủ kênh
type DashboardService struct {
	videos        basesvc.BaseServiceMongo[videomodels.Video]
	subscriptions basesvc.BaseServiceMongo[subscriptionmodels.Subscription]
	stats         *cache.StatsCache
}

// NewDashboardService tạo DashboardService. stats có thể nil (không cache).
func NewDashboardService(
	videos basesvc.BaseServiceMongo[videomodels.Video],
	subscriptions basesvc.BaseServiceMongo[subscriptionmodels.Subscription],
	stats *cache.StatsCache,
) *DashboardService {
	return &DashboardService{videos: videos, subscriptions: subscriptions, stats: stats}
}

var videoSortFields = []string{"createdAt", "views", "duration", "title", "likesCount"}

// channelStatsPipeline gom tất cả video của owner thành một document tổng
func channelStatsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"owner": owner}),
		basesvc.LookupStage(database.ColLikes, "_id", "video", "likes"),
		basesvc.LookupStage(database.ColSubscriptions, "owner", "channel", "subscribers"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalVideos", Value: bson.M{"$sum": 1}},
			{Key: "totalViews", Value: basesvc.SumOf("views")},
			{Key: "totalLikes", Value: bson.M{"$sum": basesvc.SizeOf("likes")}},
			{Key: "totalSubscribers", Value: bson.M{"$first": basesvc.SizeOf("subscribers")}},
		}}},
		basesvc.ProjectStage(bson.D{{Key: "_id", Value: 0}}),
	}
}

// GetChannelStats trả về thống kê kênh, ưu tiên bản trong cache
func (s *DashboardService) GetChannelStats(ctx context.Context, owner primitive.ObjectID) (*ChannelStats, error) {
	log := logger.WithModule(ctx, "dashboard").WithField("owner", owner.Hex())
	key := cache.ChannelStatsKey(owner)

	var cached ChannelStats
	found, err := s.stats.GetJSON(ctx, key, &cached)
	if err != nil {
		log.WithError(err).Warn("Failed to read channel stats from cache")
	}
	if found {
		return &cached, nil
	}

	docs, err := s.videos.Aggregate(ctx, channelStatsPipeline(owner))
	if err != nil {
		return nil, err
	}

	stats := &ChannelStats{}
	if len(docs) == 0 {
		// Kênh chưa có video: pipeline không trả document nào, đếm subscriber trực tiếp
		stats.TotalSubscribers, err = s.subscriptions.CountDocuments(ctx, bson.M{"channel": owner})
		if err != nil {
			return nil, err
		}
	} else if err := decodeStats(docs[0], stats); err != nil {
		return nil, err
	}

	if err := s.stats.SetJSON(ctx, key, stats); err != nil {
		log.WithError(err).Warn("Failed to cache channel stats")
	}
	return stats, nil
}

func decodeStats(doc bson.M, out *ChannelStats) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// VideosParams tham số danh sách video trên dashboard
type VideosParams struct {
	SortBy   string
	SortType string
	Page     int64
	Limit    int64
}

// channelVideosPipeline: mọi video của owner (kể cả chưa publish) kèm likesCount
func channelVideosPipeline(owner primitive.ObjectID, p VideosParams) mongo.Pipeline {
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"owner": owner}),
		basesvc.LookupStage(database.ColLikes, "_id", "video", "likes"),
		basesvc.AddFieldsStage(bson.D{{Key: "likesCount", Value: basesvc.SizeOf("likes")}}),
		basesvc.SortStage(p.SortBy, p.SortType, videoSortFields, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "_id", Value: 1},
			{Key: "videoFile.url", Value: 1},
			{Key: "thumbnail.url", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "duration", Value: 1},
			{Key: "views", Value: 1},
			{Key: "isPublished", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "updatedAt", Value: 1},
		}),
	}
}

// GetChannelVideos danh sách video của chủ kênh (phân trang)
func (s *DashboardService) GetChannelVideos(ctx context.Context, owner primitive.ObjectID, p VideosParams) (*basemodels.PaginateResult[bson.M], error) {
	return s.videos.AggregatePaginate(ctx, channelVideosPipeline(owner, p), p.Page, p.Limit)
}
