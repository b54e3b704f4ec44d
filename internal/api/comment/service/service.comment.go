// Package commentsvc chứa logic nghiệp vụ của domain comment.
package commentsvc

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	commentmodels "vidtube/internal/api/comment/models"
	likemodels "vidtube/internal/api/like/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/common"
	"vidtube/internal/database"
	"vidtube/internal/logger"
)

// CommentService xử lý nghiệp vụ bình luận
type CommentService struct {
	comments basesvc.BaseServiceMongo[commentmodels.Comment]
	videos   basesvc.BaseServiceMongo[videomodels.Video]
	likes    basesvc.BaseServiceMongo[likemodels.Like]
}

// NewCommentService tạo CommentService
func NewCommentService(
	comments basesvc.BaseServiceMongo[commentmodels.Comment],
	videos basesvc.BaseServiceMongo[videomodels.Video],
	likes basesvc.BaseServiceMongo[likemodels.Like],
) *CommentService {
	return &CommentService{comments: comments, videos: videos, likes: likes}
}

// videoCommentsPipeline: bình luận của video, mới nhất trước, kèm người viết, số like và viewer đã like chưa
func videoCommentsPipeline(videoID, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		basesvc.MatchStage(bson.M{"video": videoID}),
		basesvc.LookupStage(database.ColUsers, "owner", "_id", "owner",
			basesvc.ProjectStage(bson.D{
				{Key: "username", Value: 1},
				{Key: "fullName", Value: 1},
				{Key: "avatar.url", Value: 1},
			}),
		),
		basesvc.LookupStage(database.ColLikes, "_id", "comment", "likes"),
		basesvc.AddFieldsStage(bson.D{
			{Key: "likesCount", Value: basesvc.SizeOf("likes")},
			{Key: "owner", Value: basesvc.FirstOf("owner")},
			{Key: "isLiked", Value: basesvc.IsIn(viewer, "$likes.likedBy")},
		}),
		basesvc.SortStage("", "", nil, "createdAt"),
		basesvc.ProjectStage(bson.D{
			{Key: "content", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "isLiked", Value: 1},
		}),
	}
}

func (s *CommentService) ensureVideo(ctx context.Context, videoID primitive.ObjectID) error {
	exists, err := s.videos.DocumentExists(ctx, bson.M{"_id": videoID})
	if err != nil {
		return err
	}
	if !exists {
		return common.NewNotFoundError("Video không tồn tại")
	}
	return nil
}

// ListVideoComments danh sách bình luận của video (phân trang)
func (s *CommentService) ListVideoComments(ctx context.Context, videoID, viewer primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	if err := s.ensureVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.comments.AggregatePaginate(ctx, videoCommentsPipeline(videoID, viewer), page, limit)
}

// AddComment thêm bình luận vào video
func (s *CommentService) AddComment(ctx context.Context, videoID, actor primitive.ObjectID, content string) (*commentmodels.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewValidationError("Nội dung bình luận là bắt buộc", nil)
	}
	if err := s.ensureVideo(ctx, videoID); err != nil {
		return nil, err
	}
	created, err := s.comments.InsertOne(ctx, commentmodels.Comment{
		Content: content,
		Video:   videoID,
		Owner:   actor,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *CommentService) loadOwned(ctx context.Context, commentID, actor primitive.ObjectID) (*commentmodels.Comment, error) {
	comment, err := s.comments.FindOneById(ctx, commentID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("Bình luận không tồn tại")
		}
		return nil, err
	}
	if comment.Owner != actor {
		return nil, common.NewForbiddenError("Bạn không phải chủ sở hữu bình luận này")
	}
	return &comment, nil
}

// UpdateComment sửa nội dung bình luận, chỉ chủ sở hữu
func (s *CommentService) UpdateComment(ctx context.Context, commentID, actor primitive.ObjectID, content string) (*commentmodels.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewValidationError("Nội dung bình luận là bắt buộc", nil)
	}
	if _, err := s.loadOwned(ctx, commentID, actor); err != nil {
		return nil, err
	}
	updated, err := s.comments.UpdateById(ctx, commentID, bson.M{"content": content})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteComment xóa bình luận và các like trên bình luận đó
func (s *CommentService) DeleteComment(ctx context.Context, commentID, actor primitive.ObjectID) error {
	if _, err := s.loadOwned(ctx, commentID, actor); err != nil {
		return err
	}
	if err := s.comments.DeleteById(ctx, commentID); err != nil {
		return err
	}
	if _, err := s.likes.DeleteMany(ctx, bson.M{"comment": commentID}); err != nil {
		logger.WithModule(ctx, "comment").WithError(err).WithField("commentId", commentID.Hex()).Error("Failed to delete comment likes")
	}
	return nil
}
