// Package videosvc chứa logic nghiệp vụ của domain video: upload, xem chi tiết, cập nhật, xóa kèm cascade.
package videosvc

import (
	"context"
	"fmt"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	usermodels "vidtube/internal/api/user/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/cache"
	"vidtube/internal/common"
	"vidtube/internal/logger"
	"vidtube/internal/storage"
)

// TxRunner chạy nhiều bước ghi trong một transaction khi server hỗ trợ (database.Store)
type TxRunner interface {
	SupportsTransactions() bool
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories gom các collection mà VideoService cần
type Repositories struct {
	Videos   basesvc.BaseServiceMongo[videomodels.Video]
	Users    basesvc.BaseServiceMongo[usermodels.User]
	Comments basesvc.BaseServiceMongo[commentmodels.Comment]
	Likes    basesvc.BaseServiceMongo[likemodels.Like]
}

// SearchConfig chế độ tìm kiếm toàn văn cho danh sách video
type SearchConfig struct {
	Mode  string // text | atlas
	Index string // Tên Atlas Search index
}

// VideoService xử lý nghiệp vụ video
type VideoService struct {
	repos  Repositories
	media  storage.MediaStore
	stats  *cache.StatsCache
	tx     TxRunner
	search SearchConfig
}

// NewVideoService tạo VideoService. stats có thể nil (không dùng cache).
func NewVideoService(repos Repositories, media storage.MediaStore, stats *cache.StatsCache, tx TxRunner, search SearchConfig) *VideoService {
	if search.Mode == "" {
		search.Mode = basesvc.SearchModeText
	}
	return &VideoService{
		repos:  repos,
		media:  media,
		stats:  stats,
		tx:     tx,
		search: search,
	}
}

// PublishParams dữ liệu đã validate để tạo video
type PublishParams struct {
	Owner       primitive.ObjectID
	Title       string
	Description string
	VideoFile   *multipart.FileHeader
	Thumbnail   *multipart.FileHeader
}

// PublishVideo upload file video + thumbnail rồi tạo document (isPublished = false)
func (s *VideoService) PublishVideo(ctx context.Context, p PublishParams) (*videomodels.Video, error) {
	if p.VideoFile == nil {
		return nil, common.NewValidationError("Thiếu tệp video", nil)
	}
	if p.Thumbnail == nil {
		return nil, common.NewValidationError("Thiếu ảnh thumbnail", nil)
	}

	videoFile, err := s.media.Upload(ctx, p.VideoFile, storage.KindVideo)
	if err != nil {
		return nil, err
	}
	thumbnail, err := s.media.Upload(ctx, p.Thumbnail, storage.KindImage)
	if err != nil {
		s.cleanupMedia(ctx, videoFile.PublicID)
		return nil, err
	}

	created, err := s.repos.Videos.InsertOne(ctx, videomodels.Video{
		VideoFile:   basemodels.MediaAsset{URL: videoFile.URL, PublicID: videoFile.PublicID},
		Thumbnail:   basemodels.MediaAsset{URL: thumbnail.URL, PublicID: thumbnail.PublicID},
		Title:       p.Title,
		Description: p.Description,
		Duration:    videoFile.Duration,
		IsPublished: false,
		Owner:       p.Owner,
	})
	if err != nil {
		s.cleanupMedia(ctx, videoFile.PublicID, thumbnail.PublicID)
		return nil, err
	}

	s.stats.InvalidateChannel(ctx, p.Owner)
	return &created, nil
}

// GetVideoByID trả về chi tiết video cho viewer, tăng views và thêm vào lịch sử xem
func (s *VideoService) GetVideoByID(ctx context.Context, videoID, viewer primitive.ObjectID) (bson.M, error) {
	docs, err := s.repos.Videos.Aggregate(ctx, videoDetailsPipeline(videoID, viewer))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, common.NewNotFoundError("Video không tồn tại")
	}

	viewed, err := s.repos.Videos.UpdateById(ctx, videoID, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return nil, err
	}
	s.stats.InvalidateChannel(ctx, viewed.Owner)
	if _, err := s.repos.Users.UpdateById(ctx, viewer, bson.M{"$addToSet": bson.M{"watchHistory": videoID}}); err != nil {
		logger.WithModule(ctx, "video").WithError(err).WithField("userId", viewer.Hex()).Warn("Failed to update watch history")
	}
	return docs[0], nil
}

// loadOwned lấy video theo id và kiểm tra actor là chủ sở hữu (403 nếu không phải)
func (s *VideoService) loadOwned(ctx context.Context, videoID, actor primitive.ObjectID) (*videomodels.Video, error) {
	video, err := s.repos.Videos.FindOneById(ctx, videoID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("Video không tồn tại")
		}
		return nil, err
	}
	if video.Owner != actor {
		return nil, common.NewForbiddenError("Bạn không phải chủ sở hữu video này")
	}
	return &video, nil
}

// UpdateParams dữ liệu cập nhật video
type UpdateParams struct {
	Title       string
	Description string
	Thumbnail   *multipart.FileHeader // nil => giữ thumbnail cũ
}

// UpdateVideo cập nhật title/description và thumbnail (nếu có). Thumbnail cũ bị xóa sau khi cập nhật thành công.
func (s *VideoService) UpdateVideo(ctx context.Context, videoID, actor primitive.ObjectID, p UpdateParams) (*videomodels.Video, error) {
	current, err := s.loadOwned(ctx, videoID, actor)
	if err != nil {
		return nil, err
	}

	set := bson.M{"title": p.Title, "description": p.Description}
	var newThumb *storage.UploadResult
	if p.Thumbnail != nil {
		newThumb, err = s.media.Upload(ctx, p.Thumbnail, storage.KindImage)
		if err != nil {
			return nil, err
		}
		set["thumbnail"] = basemodels.MediaAsset{URL: newThumb.URL, PublicID: newThumb.PublicID}
	}

	updated, err := s.repos.Videos.UpdateById(ctx, videoID, bson.M{"$set": set})
	if err != nil {
		if newThumb != nil {
			s.cleanupMedia(ctx, newThumb.PublicID)
		}
		return nil, err
	}
	if newThumb != nil {
		s.cleanupMedia(ctx, current.Thumbnail.PublicID)
	}
	return &updated, nil
}

// TogglePublishStatus đảo trạng thái isPublished, trả về giá trị mới
func (s *VideoService) TogglePublishStatus(ctx context.Context, videoID, actor primitive.ObjectID) (bool, error) {
	current, err := s.loadOwned(ctx, videoID, actor)
	if err != nil {
		return false, err
	}
	updated, err := s.repos.Videos.UpdateById(ctx, videoID, bson.M{"isPublished": !current.IsPublished})
	if err != nil {
		return false, err
	}
	s.stats.InvalidateChannel(ctx, actor)
	return updated.IsPublished, nil
}

// DeleteVideo xóa video cùng likes, comments (và likes trên các comment đó), sau đó xóa media
func (s *VideoService) DeleteVideo(ctx context.Context, videoID, actor primitive.ObjectID) error {
	video, err := s.loadOwned(ctx, videoID, actor)
	if err != nil {
		return err
	}
	if err := s.deleteCascade(ctx, video.ID); err != nil {
		return err
	}
	s.cleanupMedia(ctx, video.VideoFile.PublicID, video.Thumbnail.PublicID)
	s.stats.InvalidateChannel(ctx, actor)
	return nil
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
}

// deleteCascade: có transaction => mọi bước nguyên tử, lỗi ở bước nào cũng rollback.
// Không có transaction => chạy tuần tự, chỉ lỗi xóa document video làm hỏng request, các bước sau lỗi thì log.
func (s *VideoService) deleteCascade(ctx context.Context, videoID primitive.ObjectID) error {
	steps := []cascadeStep{
		{name: "video", run: func(ctx context.Context) error {
			return s.repos.Videos.DeleteById(ctx, videoID)
		}},
		{name: "video_likes", run: func(ctx context.Context) error {
			_, err := s.repos.Likes.DeleteMany(ctx, bson.M{"video": videoID})
			return err
		}},
		{name: "comment_likes", run: func(ctx context.Context) error {
			comments, err := s.repos.Comments.Find(ctx, bson.M{"video": videoID}, nil)
			if err != nil || len(comments) == 0 {
				return err
			}
			ids := make([]primitive.ObjectID, 0, len(comments))
			for _, c := range comments {
				ids = append(ids, c.ID)
			}
			_, err = s.repos.Likes.DeleteMany(ctx, bson.M{"comment": bson.M{"$in": ids}})
			return err
		}},
		{name: "comments", run: func(ctx context.Context) error {
			_, err := s.repos.Comments.DeleteMany(ctx, bson.M{"video": videoID})
			return err
		}},
	}

	if s.tx != nil && s.tx.SupportsTransactions() {
		return s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
			for _, step := range steps {
				if err := step.run(ctx); err != nil {
					return fmt.Errorf("delete %s: %w", step.name, err)
				}
			}
			return nil
		})
	}

	if err := steps[0].run(ctx); err != nil {
		return err
	}
	for _, step := range steps[1:] {
		if err := step.run(ctx); err != nil {
			logger.WithModule(ctx, "video").WithError(err).WithFields(map[string]interface{}{
				"videoId": videoID.Hex(),
				"step":    step.name,
			}).Error("Cascade step failed")
		}
	}
	return nil
}

// cleanupMedia xóa media trên media host, lỗi chỉ được log kèm publicId
func (s *VideoService) cleanupMedia(ctx context.Context, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := s.media.Delete(ctx, id); err != nil {
			logger.WithModule(ctx, "video").WithError(err).WithField("publicId", id).Warn("Failed to delete media")
		}
	}
}
