package videosvc

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	"vidtube/internal/api/base/service/basesvctest"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	usermodels "vidtube/internal/api/user/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/cache"
	"vidtube/internal/cache/cachetest"
	"vidtube/internal/common"
	"vidtube/internal/storage/storagetest"
)

type fixture struct {
	svc      *VideoService
	videos   *basesvctest.FakeService[videomodels.Video]
	users    *basesvctest.FakeService[usermodels.User]
	comments *basesvctest.FakeService[commentmodels.Comment]
	likes    *basesvctest.FakeService[likemodels.Like]
	media    *storagetest.FakeStore
	tx       *basesvctest.TxRunner
}

func newFixture(txSupported bool) *fixture {
	f := &fixture{
		videos:   basesvctest.New[videomodels.Video](),
		users:    basesvctest.New[usermodels.User](),
		comments: basesvctest.New[commentmodels.Comment](),
		likes:    basesvctest.New[likemodels.Like](),
		media:    &storagetest.FakeStore{Duration: 12.5},
		tx:       &basesvctest.TxRunner{Supported: txSupported},
	}
	f.svc = NewVideoService(Repositories{
		Videos:   f.videos,
		Users:    f.users,
		Comments: f.comments,
		Likes:    f.likes,
	}, f.media, nil, f.tx, SearchConfig{})
	return f
}

func (f *fixture) seedVideo(owner primitive.ObjectID, published bool) videomodels.Video {
	return f.videos.Seed(videomodels.Video{
		Title:       "Go concurrency",
		Description: "channels",
		VideoFile:   basemodels.MediaAsset{URL: "http://media.test/v", PublicID: "video/v1"},
		Thumbnail:   basemodels.MediaAsset{URL: "http://media.test/t", PublicID: "image/t1"},
		IsPublished: published,
		Owner:       owner,
	})[0]
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr), "lỗi phải là common.Error: %v", err)
	return appErr.StatusCode
}

func TestListVideosPipeline(t *testing.T) {
	t.Run("có query => stage tìm kiếm đứng đầu", func(t *testing.T) {
		pipeline, err := listVideosPipeline(ListParams{Query: "golang"}, SearchConfig{Mode: basesvc.SearchModeText})
		require.NoError(t, err)
		assert.Equal(t, "$match", pipeline[0][0].Key)
		text := pipeline[0][0].Value.(bson.D)
		assert.Equal(t, "$text", text[0].Key)
	})

	t.Run("atlas mode => $search", func(t *testing.T) {
		pipeline, err := listVideosPipeline(ListParams{Query: "golang"}, SearchConfig{Mode: basesvc.SearchModeAtlas, Index: "idx"})
		require.NoError(t, err)
		assert.Equal(t, "$search", pipeline[0][0].Key)
	})

	t.Run("không query => bắt đầu bằng isPublished", func(t *testing.T) {
		pipeline, err := listVideosPipeline(ListParams{}, SearchConfig{})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"isPublished": true}, pipeline[0][0].Value)
		assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, pipeline[1])
	})

	t.Run("lọc theo userId", func(t *testing.T) {
		owner := primitive.NewObjectID()
		pipeline, err := listVideosPipeline(ListParams{UserID: owner.Hex(), SortBy: "views", SortType: "asc"}, SearchConfig{})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"isPublished": true, "owner": owner}, pipeline[0][0].Value)
		assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "views", Value: 1}}}}, pipeline[1])
	})

	t.Run("sortBy ngoài danh sách => createdAt", func(t *testing.T) {
		pipeline, err := listVideosPipeline(ListParams{SortBy: "password"}, SearchConfig{})
		require.NoError(t, err)
		assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, pipeline[1])
	})

	t.Run("userId sai định dạng => 400", func(t *testing.T) {
		_, err := listVideosPipeline(ListParams{UserID: "abc"}, SearchConfig{})
		assert.Equal(t, common.StatusBadRequest, statusOf(t, err))
	})
}

func TestListVideos_Paginates(t *testing.T) {
	f := newFixture(false)
	f.videos.AggregateFunc = func(pipeline mongo.Pipeline) ([]bson.M, error) {
		last := pipeline[len(pipeline)-1]
		if last[0].Key == "$count" {
			return []bson.M{{"totalDocs": int32(25)}}, nil
		}
		return []bson.M{{"title": "a"}}, nil
	}

	page, err := f.svc.ListVideos(context.Background(), ListParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.TotalDocs)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.False(t, page.HasNextPage)
	require.Len(t, f.videos.Pipelines, 2)
}

func TestPublishVideo(t *testing.T) {
	f := newFixture(false)
	owner := primitive.NewObjectID()

	_, err := f.svc.PublishVideo(context.Background(), PublishParams{Owner: owner, Title: "t", Description: "d"})
	assert.Equal(t, common.StatusBadRequest, statusOf(t, err))

	video, err := f.svc.PublishVideo(context.Background(), PublishParams{
		Owner:       owner,
		Title:       "t",
		Description: "d",
		VideoFile:   &multipart.FileHeader{Filename: "v.mp4"},
		Thumbnail:   &multipart.FileHeader{Filename: "t.png"},
	})
	require.NoError(t, err)
	assert.False(t, video.IsPublished)
	assert.Equal(t, 12.5, video.Duration)
	assert.Equal(t, owner, video.Owner)
	assert.Len(t, f.media.Uploaded, 2)

	t.Run("insert lỗi => dọn media", func(t *testing.T) {
		f.videos.Errs["InsertOne"] = errors.New("write failed")
		defer delete(f.videos.Errs, "InsertOne")
		_, err := f.svc.PublishVideo(context.Background(), PublishParams{
			Owner: owner, Title: "t", Description: "d",
			VideoFile: &multipart.FileHeader{Filename: "v.mp4"},
			Thumbnail: &multipart.FileHeader{Filename: "t.png"},
		})
		require.Error(t, err)
		assert.Len(t, f.media.Deleted, 2)
	})
}

func TestGetVideoByID(t *testing.T) {
	f := newFixture(false)
	owner := primitive.NewObjectID()
	video := f.seedVideo(owner, true)
	viewer := f.users.Seed(usermodels.User{Username: "viewer", WatchHistory: []primitive.ObjectID{}})[0]

	f.videos.AggregateFunc = func(mongo.Pipeline) ([]bson.M, error) {
		return []bson.M{{"_id": video.ID, "title": video.Title}}, nil
	}

	doc, err := f.svc.GetVideoByID(context.Background(), video.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Title, doc["title"])

	// xem hai lần: views tăng 2, lịch sử không trùng
	_, err = f.svc.GetVideoByID(context.Background(), video.ID, viewer.ID)
	require.NoError(t, err)

	stored, _ := f.videos.FindOneById(context.Background(), video.ID)
	assert.Equal(t, int64(2), stored.Views)
	reloaded, _ := f.users.FindOneById(context.Background(), viewer.ID)
	assert.Equal(t, []primitive.ObjectID{video.ID}, reloaded.WatchHistory)

	t.Run("không có kết quả => 404", func(t *testing.T) {
		f.videos.AggregateFunc = nil
		_, err := f.svc.GetVideoByID(context.Background(), primitive.NewObjectID(), viewer.ID)
		assert.True(t, common.IsNotFound(err))
	})
}

func TestGetVideoByID_InvalidatesOwnerStats(t *testing.T) {
	stats := cachetest.StartRedis(t, time.Minute)
	f := newFixture(false)
	f.svc.stats = stats
	owner := primitive.NewObjectID()
	video := f.seedVideo(owner, true)
	viewer := f.users.Seed(usermodels.User{Username: "viewer", WatchHistory: []primitive.ObjectID{}})[0]
	f.videos.AggregateFunc = func(mongo.Pipeline) ([]bson.M, error) {
		return []bson.M{{"_id": video.ID}}, nil
	}

	ctx := context.Background()
	key := cache.ChannelStatsKey(owner)
	require.NoError(t, stats.SetJSON(ctx, key, map[string]int64{"totalViews": 0}))

	_, err := f.svc.GetVideoByID(ctx, video.ID, viewer.ID)
	require.NoError(t, err)

	var cached map[string]int64
	found, err := stats.GetJSON(ctx, key, &cached)
	require.NoError(t, err)
	assert.False(t, found, "views tăng => thống kê kênh phải tính lại")
}

func TestOwnershipGate(t *testing.T) {
	f := newFixture(false)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	video := f.seedVideo(owner, false)
	ctx := context.Background()

	_, err := f.svc.UpdateVideo(ctx, video.ID, stranger, UpdateParams{Title: "hacked", Description: "x"})
	assert.Equal(t, common.StatusForbidden, statusOf(t, err))

	_, err = f.svc.TogglePublishStatus(ctx, video.ID, stranger)
	assert.Equal(t, common.StatusForbidden, statusOf(t, err))

	err = f.svc.DeleteVideo(ctx, video.ID, stranger)
	assert.Equal(t, common.StatusForbidden, statusOf(t, err))

	stored, err := f.videos.FindOneById(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go concurrency", stored.Title)
	assert.False(t, stored.IsPublished)
	assert.Empty(t, f.media.Deleted)

	_, err = f.svc.UpdateVideo(ctx, primitive.NewObjectID(), owner, UpdateParams{Title: "a", Description: "b"})
	assert.True(t, common.IsNotFound(err))
}

func TestUpdateVideo_ReplacesThumbnail(t *testing.T) {
	f := newFixture(false)
	owner := primitive.NewObjectID()
	video := f.seedVideo(owner, true)

	updated, err := f.svc.UpdateVideo(context.Background(), video.ID, owner, UpdateParams{
		Title:       "New title",
		Description: "New description",
		Thumbnail:   &multipart.FileHeader{Filename: "new.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.NotEqual(t, "image/t1", updated.Thumbnail.PublicID)
	assert.Equal(t, []string{"image/t1"}, f.media.Deleted)
}

func TestTogglePublishStatus_Twice(t *testing.T) {
	f := newFixture(false)
	owner := primitive.NewObjectID()
	video := f.seedVideo(owner, false)

	published, err := f.svc.TogglePublishStatus(context.Background(), video.ID, owner)
	require.NoError(t, err)
	assert.True(t, published)

	published, err = f.svc.TogglePublishStatus(context.Background(), video.ID, owner)
	require.NoError(t, err)
	assert.False(t, published)
}

func TestDeleteVideo_Cascade(t *testing.T) {
	for _, txSupported := range []bool{true, false} {
		name := "không transaction"
		if txSupported {
			name = "có transaction"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(txSupported)
			owner := primitive.NewObjectID()
			fan := primitive.NewObjectID()
			video := f.seedVideo(owner, true)
			other := f.seedVideo(owner, true)

			comment := f.comments.Seed(commentmodels.Comment{Content: "hay", Video: video.ID, Owner: fan})[0]
			f.comments.Seed(commentmodels.Comment{Content: "khác", Video: other.ID, Owner: fan})
			f.likes.Seed(
				likemodels.Like{Video: &video.ID, LikedBy: fan},
				likemodels.Like{Comment: &comment.ID, LikedBy: owner},
				likemodels.Like{Video: &other.ID, LikedBy: fan},
			)

			require.NoError(t, f.svc.DeleteVideo(context.Background(), video.ID, owner))

			_, err := f.videos.FindOneById(context.Background(), video.ID)
			assert.True(t, common.IsNotFound(err))
			assert.Equal(t, 1, f.comments.Len())
			remaining := f.likes.All()
			require.Len(t, remaining, 1)
			assert.Equal(t, other.ID, *remaining[0].Video)
			assert.ElementsMatch(t, []string{"video/v1", "image/t1"}, f.media.Deleted)

			if txSupported {
				assert.Equal(t, 1, f.tx.Calls)
			} else {
				assert.Equal(t, 0, f.tx.Calls)
			}
		})
	}
}

func TestDeleteVideo_BestEffortWithoutTransaction(t *testing.T) {
	f := newFixture(false)
	owner := primitive.NewObjectID()
	video := f.seedVideo(owner, true)
	f.comments.Errs["DeleteMany"] = errors.New("comments unavailable")

	require.NoError(t, f.svc.DeleteVideo(context.Background(), video.ID, owner))
	assert.Equal(t, 0, f.videos.Len())
}

func TestDeleteVideo_TransactionAborts(t *testing.T) {
	f := newFixture(true)
	owner := primitive.NewObjectID()
	video := f.seedVideo(owner, true)
	f.comments.Errs["DeleteMany"] = errors.New("comments unavailable")

	err := f.svc.DeleteVideo(context.Background(), video.ID, owner)
	require.Error(t, err)
	assert.Empty(t, f.media.Deleted, "media chỉ bị xóa khi cascade thành công")
}
