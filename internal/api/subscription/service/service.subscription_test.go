package subscriptionsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/api/base/service/basesvctest"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
)

func newTestService() (*SubscriptionService, *basesvctest.FakeService[subscriptionmodels.Subscription], *basesvctest.FakeService[usermodels.User]) {
	subs := basesvctest.New[subscriptionmodels.Subscription]()
	subs.UniqueKeys = [][]string{{"subscriber", "channel"}}
	users := basesvctest.New[usermodels.User]()
	return NewSubscriptionService(subs, users, nil), subs, users
}

func TestToggleSubscription_TwiceRestoresState(t *testing.T) {
	svc, subs, users := newTestService()
	channel := users.Seed(usermodels.User{Username: "channel"})[0]
	fan := primitive.NewObjectID()

	subscribed, err := svc.ToggleSubscription(context.Background(), channel.ID, fan)
	require.NoError(t, err)
	assert.True(t, subscribed)
	assert.Equal(t, 1, subs.Len())

	subscribed, err = svc.ToggleSubscription(context.Background(), channel.ID, fan)
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.Equal(t, 0, subs.Len())
}

func TestToggleSubscription_Rejections(t *testing.T) {
	svc, subs, users := newTestService()
	me := users.Seed(usermodels.User{Username: "me"})[0]

	_, err := svc.ToggleSubscription(context.Background(), me.ID, me.ID)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)

	_, err = svc.ToggleSubscription(context.Background(), primitive.NewObjectID(), me.ID)
	assert.True(t, common.IsNotFound(err))
	assert.Equal(t, 0, subs.Len())
}

func TestToggleSubscription_DuplicateInsertCountsAsSubscribed(t *testing.T) {
	svc, subs, users := newTestService()
	channel := users.Seed(usermodels.User{Username: "channel"})[0]
	subs.Errs["InsertOne"] = common.ErrDuplicate

	subscribed, err := svc.ToggleSubscription(context.Background(), channel.ID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestSubscriptionPipelines(t *testing.T) {
	channel := primitive.NewObjectID()
	pipeline := channelSubscribersPipeline(channel, channel)
	assert.Equal(t, bson.M{"channel": channel}, pipeline[0][0].Value)
	project := pipeline[len(pipeline)-1][0].Value.(bson.D)
	assert.Contains(t, project, bson.E{Key: "subscribedDate", Value: "$createdAt"})
	assert.Contains(t, project, bson.E{Key: "_id", Value: 0})

	subscriber := primitive.NewObjectID()
	pipeline = subscribedChannelsPipeline(subscriber)
	assert.Equal(t, bson.M{"subscriber": subscriber}, pipeline[0][0].Value)
}

func TestSubscriptionLists_UnknownUser(t *testing.T) {
	svc, subs, users := newTestService()
	ctx := context.Background()

	_, err := svc.GetChannelSubscribers(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 1, 10)
	assert.True(t, common.IsNotFound(err))
	_, err = svc.GetSubscribedChannels(ctx, primitive.NewObjectID(), 1, 10)
	assert.True(t, common.IsNotFound(err))
	assert.Empty(t, subs.Pipelines, "không chạy aggregation khi user không tồn tại")

	channel := users.Seed(usermodels.User{Username: "channel"})[0]
	res, err := svc.GetChannelSubscribers(ctx, channel.ID, primitive.NewObjectID(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalDocs)
	assert.NotNil(t, res.Docs)
}
