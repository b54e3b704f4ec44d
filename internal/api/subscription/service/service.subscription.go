// Package subscriptionsvc chứa logic nghiệp vụ của domain subscription.
package subscriptionsvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/cache"
	"vidtube/internal/common"
	"vidtube/internal/database"
)

// SubscriptionService xử lý đăng ký/hủy đăng ký kênh
type SubscriptionService struct {
	subscriptions basesvc.BaseServiceMongo[subscriptionmodels.Subscription]
	users         basesvc.BaseServiceMongo[usermodels.User]
	stats         *cache.StatsCache
}

// NewSubscriptionService tạo SubscriptionService. stats có thể nil.
func NewSubscriptionService(
	subscriptions basesvc.BaseServiceMongo[subscriptionmodels.Subscription],
	users basesvc.BaseServiceMongo[usermodels.User],
	stats *cache.StatsCache,
) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, stats: stats}
}

// ToggleSubscription: đang đăng ký => hủy, chưa => đăng ký. Trả về trạng thái sau khi toggle.
// Không tự đăng ký kênh của mình (400), kênh không tồn tại => 404.
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, channelID, actor primitive.ObjectID) (bool, error) {
	if channelID == actor {
		return false, common.NewValidationError("Không thể tự đăng ký kênh của chính mình", nil)
	}
	if err := s.ensureUser(ctx, channelID, "Kênh không tồn tại"); err != nil {
		return false, err
	}

	filter := bson.M{"subscriber": actor, "channel": channelID}
	existing, err := s.subscriptions.FindOne(ctx, filter, nil)
	if err == nil {
		if err := s.subscriptions.DeleteById(ctx, existing.ID); err != nil {
			return false, err
		}
		s.stats.InvalidateChannel(ctx, channelID)
		return false, nil
	}
	if !common.IsNotFound(err) {
		return false, err
	}

	_, err = s.subscriptions.InsertOne(ctx, subscriptionmodels.Subscription{Subscriber: actor, Channel: channelID})
	// Request song song đã tạo trước: unique index (subscriber, channel) chặn bản thứ hai
	if err != nil && !errors.Is(err, common.ErrDuplicate) {
		return false, err
	}
	s.stats.InvalidateChannel(ctx, channelID)
	return true, nil
}

// channelSubscribersPipeline: người đăng ký của kênh, kèm số người đăng ký của họ và viewer đã đăng ký họ chưa
func channelSubscribersPipeline(channelID, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"channel": channelID}),
		basesvc.LookupStage(database.ColUsers, "subscriber", "_id", "subscriber",
			basesvc.LookupStage(database.ColSubscriptions, "_id", "channel", "subscribedToSubscriber"),
			basesvc.AddFieldsStage(bson.D{
				{Key: "isSubscribed", Value: basesvc.IsIn(viewer, "$subscribedToSubscriber.subscriber")},
				{Key: "subscribersCount", Value: basesvc.SizeOf("subscribedToSubscriber")},
			}),
		),
		basesvc.UnwindStage("subscriber", false),
		basesvc.SortStage("", "", nil, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "_id", Value: 0},
			{Key: "subscriber._id", Value: 1},
			{Key: "subscriber.username", Value: 1},
			{Key: "subscriber.fullName", Value: 1},
			{Key: "subscriber.avatar.url", Value: 1},
			{Key: "subscriber.isSubscribed", Value: 1},
			{Key: "subscriber.subscribersCount", Value: 1},
			{Key: "subscribedDate", Value: "$createdAt"},
		}),
	}
}

// subscribedChannelsPipeline: các kênh mà subscriber đang theo dõi, kèm số người đăng ký của kênh
func subscribedChannelsPipeline(subscriberID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"subscriber": subscriberID}),
		basesvc.LookupStage(database.ColUsers, "channel", "_id", "channel",
			basesvc.LookupStage(database.ColSubscriptions, "_id", "channel", "subscribers"),
			basesvc.AddFieldsStage(bson.D{
				{Key: "subscribersCount", Value: basesvc.SizeOf("subscribers")},
			}),
		),
		basesvc.UnwindStage("channel", false),
		basesvc.SortStage("", "", nil, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "_id", Value: 0},
			{Key: "channel._id", Value: 1},
			{Key: "channel.username", Value: 1},
			{Key: "channel.fullName", Value: 1},
			{Key: "channel.avatar.url", Value: 1},
			{Key: "channel.subscribersCount", Value: 1},
			{Key: "subscribedDate", Value: "$createdAt"},
		}),
	}
}

// ensureUser trả về 404 với message notFound khi user không tồn tại
func (s *SubscriptionService) ensureUser(ctx context.Context, id primitive.ObjectID, notFound string) error {
	exists, err := s.users.DocumentExists(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if !exists {
		return common.NewNotFoundError(notFound)
	}
	return nil
}

// GetChannelSubscribers danh sách người đăng ký của kênh (phân trang). Kênh không tồn tại => 404.
func (s *SubscriptionService) GetChannelSubscribers(ctx context.Context, channelID, viewer primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	if err := s.ensureUser(ctx, channelID, "Kênh không tồn tại"); err != nil {
		return nil, err
	}
	return s.subscriptions.AggregatePaginate(ctx, channelSubscribersPipeline(channelID, viewer), page, limit)
}

// GetSubscribedChannels danh sách kênh mà user đang đăng ký (phân trang). Subscriber không tồn tại => 404.
func (s *SubscriptionService) GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	if err := s.ensureUser(ctx, subscriberID, "Người đăng ký không tồn tại"); err != nil {
		return nil, err
	}
	return s.subscriptions.AggregatePaginate(ctx, subscribedChannelsPipeline(subscriberID), page, limit)
}
