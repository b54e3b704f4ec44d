package commentsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/api/base/service/basesvctest"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/common"
)

func newTestService() (*CommentService, *basesvctest.FakeService[commentmodels.Comment], *basesvctest.FakeService[videomodels.Video], *basesvctest.FakeService[likemodels.Like]) {
	comments := basesvctest.New[commentmodels.Comment]()
	videos := basesvctest.New[videomodels.Video]()
	likes := basesvctest.New[likemodels.Like]()
	return NewCommentService(comments, videos, likes), comments, videos, likes
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	return appErr.StatusCode
}

func TestAddComment(t *testing.T) {
	svc, comments, videos, _ := newTestService()
	video := videos.Seed(videomodels.Video{Title: "v", Owner: primitive.NewObjectID()})[0]
	actor := primitive.NewObjectID()

	comment, err := svc.AddComment(context.Background(), video.ID, actor, "  hay quá  ")
	require.NoError(t, err)
	assert.Equal(t, "hay quá", comment.Content)
	assert.Equal(t, actor, comment.Owner)

	_, err = svc.AddComment(context.Background(), primitive.NewObjectID(), actor, "x")
	assert.True(t, common.IsNotFound(err))

	_, err = svc.AddComment(context.Background(), video.ID, actor, "   ")
	assert.Equal(t, common.StatusBadRequest, statusOf(t, err))
	assert.Equal(t, 1, comments.Len())
}

func TestUpdateAndDeleteComment_OwnerOnly(t *testing.T) {
	svc, comments, _, likes := newTestService()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	comment := comments.Seed(commentmodels.Comment{Content: "gốc", Video: primitive.NewObjectID(), Owner: owner})[0]
	likes.Seed(likemodels.Like{Comment: &comment.ID, LikedBy: stranger})

	_, err := svc.UpdateComment(context.Background(), comment.ID, stranger, "sửa")
	assert.Equal(t, common.StatusForbidden, statusOf(t, err))
	err = svc.DeleteComment(context.Background(), comment.ID, stranger)
	assert.Equal(t, common.StatusForbidden, statusOf(t, err))
	assert.Equal(t, "gốc", comments.All()[0].Content)

	updated, err := svc.UpdateComment(context.Background(), comment.ID, owner, "đã sửa")
	require.NoError(t, err)
	assert.Equal(t, "đã sửa", updated.Content)

	require.NoError(t, svc.DeleteComment(context.Background(), comment.ID, owner))
	assert.Equal(t, 0, comments.Len())
	assert.Equal(t, 0, likes.Len(), "like trên bình luận phải bị xóa theo")
}

func TestListVideoComments(t *testing.T) {
	svc, comments, videos, _ := newTestService()
	video := videos.Seed(videomodels.Video{Title: "v"})[0]
	viewer := primitive.NewObjectID()

	_, err := svc.ListVideoComments(context.Background(), primitive.NewObjectID(), viewer, 1, 10)
	assert.True(t, common.IsNotFound(err))

	_, err = svc.ListVideoComments(context.Background(), video.ID, viewer, 1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, comments.Pipelines)
	first := comments.Pipelines[0]
	assert.Equal(t, bson.M{"video": video.ID}, first[0][0].Value)
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, first[4])
}
