package dashboardsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/internal/api/base/service/basesvctest"
	subscriptionmodels "vidtube/internal/api/subscription/models"
	videomodels "vidtube/internal/api/video/models"
)

func newTestService() (*DashboardService, *basesvctest.FakeService[videomodels.Video], *basesvctest.FakeService[subscriptionmodels.Subscription]) {
	videos := basesvctest.New[videomodels.Video]()
	subs := basesvctest.New[subscriptionmodels.Subscription]()
	return NewDashboardService(videos, subs, nil), videos, subs
}

func TestGetChannelStats_NoVideosFallsBackToSubscriberCount(t *testing.T) {
	svc, _, subs := newTestService()
	owner := primitive.NewObjectID()
	subs.Seed(
		subscriptionmodels.Subscription{Subscriber: primitive.NewObjectID(), Channel: owner},
		subscriptionmodels.Subscription{Subscriber: primitive.NewObjectID(), Channel: owner},
		subscriptionmodels.Subscription{Subscriber: primitive.NewObjectID(), Channel: primitive.NewObjectID()},
	)

	stats, err := svc.GetChannelStats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{TotalSubscribers: 2}, *stats)
}

func TestGetChannelStats_FromPipeline(t *testing.T) {
	svc, videos, _ := newTestService()
	owner := primitive.NewObjectID()
	videos.AggregateFunc = func(pipeline mongo.Pipeline) ([]bson.M, error) {
		return []bson.M{{
			"totalVideos":      int32(3),
			"totalViews":       int64(120),
			"totalLikes":       int32(7),
			"totalSubscribers": int32(4),
		}}, nil
	}

	stats, err := svc.GetChannelStats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{TotalVideos: 3, TotalViews: 120, TotalLikes: 7, TotalSubscribers: 4}, *stats)

	pipeline := videos.Pipelines[0]
	assert.Equal(t, bson.M{"owner": owner}, pipeline[0][0].Value)
	assert.Equal(t, "$group", pipeline[3][0].Key)
}

func TestGetChannelStats_AggregateError(t *testing.T) {
	svc, videos, _ := newTestService()
	videos.Errs["Aggregate"] = errors.New("boom")

	_, err := svc.GetChannelStats(context.Background(), primitive.NewObjectID())
	assert.Error(t, err)
}

func TestChannelVideosPipeline(t *testing.T) {
	owner := primitive.NewObjectID()

	pipeline := channelVideosPipeline(owner, VideosParams{})
	assert.Equal(t, bson.M{"owner": owner}, pipeline[0][0].Value, "gồm cả video chưa publish")
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, pipeline[3][0].Value)

	pipeline = channelVideosPipeline(owner, VideosParams{SortType: "asc"})
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, pipeline[3][0].Value)

	pipeline = channelVideosPipeline(owner, VideosParams{SortBy: "likesCount"})
	assert.Equal(t, bson.D{{Key: "likesCount", Value: -1}}, pipeline[3][0].Value)

	pipeline = channelVideosPipeline(owner, VideosParams{SortBy: "password", SortType: "asc"})
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, pipeline[3][0].Value)
}

func TestGetChannelVideos_Paginates(t *testing.T) {
	svc, videos, _ := newTestService()
	videos.AggregateFunc = func(pipeline mongo.Pipeline) ([]bson.M, error) {
		last := pipeline[len(pipeline)-1][0]
		if last.Key == "$count" {
			return []bson.M{{"totalDocs": int32(5)}}, nil
		}
		return []bson.M{{"title": "a"}, {"title": "b"}}, nil
	}

	result, err := svc.GetChannelVideos(context.Background(), primitive.NewObjectID(), VideosParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.TotalDocs)
	assert.EqualValues(t, 3, result.TotalPages)
	assert.Len(t, result.Docs, 2)
}
