package likesvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/api/base/service/basesvctest"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	tweetmodels "vidtube/internal/api/tweet/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/common"
)

type fixture struct {
	svc      *LikeService
	likes    *basesvctest.FakeService[likemodels.Like]
	videos   *basesvctest.FakeService[videomodels.Video]
	comments *basesvctest.FakeService[commentmodels.Comment]
	tweets   *basesvctest.FakeService[tweetmodels.Tweet]
}

func newFixture() *fixture {
	f := &fixture{
		likes:    basesvctest.New[likemodels.Like](),
		videos:   basesvctest.New[videomodels.Video](),
		comments: basesvctest.New[commentmodels.Comment](),
		tweets:   basesvctest.New[tweetmodels.Tweet](),
	}
	f.svc = NewLikeService(f.likes, f.videos, f.comments, f.tweets, nil)
	return f
}

func TestToggle_TwiceRestoresState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := primitive.NewObjectID()
	video := f.videos.Seed(videomodels.Video{Title: "v", Owner: primitive.NewObjectID()})[0]
	comment := f.comments.Seed(commentmodels.Comment{Content: "c", Video: video.ID})[0]
	tweet := f.tweets.Seed(tweetmodels.Tweet{Content: "t"})[0]

	cases := []struct {
		target LikeTarget
		id     primitive.ObjectID
	}{
		{TargetVideo, video.ID},
		{TargetComment, comment.ID},
		{TargetTweet, tweet.ID},
	}
	for _, tc := range cases {
		t.Run(tc.target.String(), func(t *testing.T) {
			before := f.likes.Len()

			liked, err := f.svc.Toggle(ctx, tc.target, tc.id, actor)
			require.NoError(t, err)
			assert.True(t, liked)
			assert.Equal(t, before+1, f.likes.Len())

			liked, err = f.svc.Toggle(ctx, tc.target, tc.id, actor)
			require.NoError(t, err)
			assert.False(t, liked)
			assert.Equal(t, before, f.likes.Len())
		})
	}
}

func TestToggle_SeparateActors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	video := f.videos.Seed(videomodels.Video{Title: "v"})[0]
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	liked, err := f.svc.Toggle(ctx, TargetVideo, video.ID, alice)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = f.svc.Toggle(ctx, TargetVideo, video.ID, bob)
	require.NoError(t, err)
	assert.True(t, liked, "like của người khác không ảnh hưởng")
	assert.Equal(t, 2, f.likes.Len())
}

func TestToggle_MissingTarget(t *testing.T) {
	f := newFixture()
	for _, target := range []LikeTarget{TargetVideo, TargetComment, TargetTweet} {
		_, err := f.svc.Toggle(context.Background(), target, primitive.NewObjectID(), primitive.NewObjectID())
		assert.True(t, common.IsNotFound(err), target.String())
	}
	assert.Equal(t, 0, f.likes.Len())

	_, err := f.svc.Toggle(context.Background(), LikeTarget(99), primitive.NewObjectID(), primitive.NewObjectID())
	assert.Error(t, err)
}

func TestLikedVideosPipeline(t *testing.T) {
	actor := primitive.NewObjectID()
	pipeline := likedVideosPipeline(actor)
	assert.Equal(t, bson.M{"likedBy": actor, "video": bson.M{"$exists": true}}, pipeline[0][0].Value)
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, pipeline[3])
}
