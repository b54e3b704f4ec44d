package tweetsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/api/base/service/basesvctest"
	likemodels "vidtube/internal/api/like/models"
	tweetmodels "vidtube/internal/api/tweet/models"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
)

func TestTweetLifecycle(t *testing.T) {
	tweets := basesvctest.New[tweetmodels.Tweet]()
	users := basesvctest.New[usermodels.User]()
	likes := basesvctest.New[likemodels.Like]()
	svc := NewTweetService(tweets, users, likes)
	ctx := context.Background()

	owner := users.Seed(usermodels.User{Username: "alice"})[0]
	stranger := primitive.NewObjectID()

	tweet, err := svc.CreateTweet(ctx, owner.ID, " xin chào ")
	require.NoError(t, err)
	assert.Equal(t, "xin chào", tweet.Content)
	likes.Seed(likemodels.Like{Tweet: &tweet.ID, LikedBy: stranger})

	_, err = svc.UpdateTweet(ctx, tweet.ID, stranger, "bị sửa")
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, "xin chào", tweets.All()[0].Content)

	updated, err := svc.UpdateTweet(ctx, tweet.ID, owner.ID, "tạm biệt")
	require.NoError(t, err)
	assert.Equal(t, "tạm biệt", updated.Content)

	_, err = svc.GetUserTweets(ctx, owner.ID, stranger)
	require.NoError(t, err)
	require.Len(t, tweets.Pipelines, 1)
	assert.Equal(t, bson.M{"owner": owner.ID}, tweets.Pipelines[0][0][0].Value)

	_, err = svc.GetUserTweets(ctx, primitive.NewObjectID(), stranger)
	assert.True(t, common.IsNotFound(err))

	require.NoError(t, svc.DeleteTweet(ctx, tweet.ID, owner.ID))
	assert.Equal(t, 0, tweets.Len())
	assert.Equal(t, 0, likes.Len())
}
