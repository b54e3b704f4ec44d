// Package commenthdl xử lý các request HTTP của domain comment.
package commenthdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	commentdto "vidtube/internal/api/comment/dto"
	commentsvc "vidtube/internal/api/comment/service"
	"vidtube/internal/common"
	"vidtube/internal/logger"
)

// CommentHandler xử lý các request liên quan đến bình luận
type CommentHandler struct {
	*basehdl.BaseHandler
	commentService *commentsvc.CommentService
}

// NewCommentHandler tạo instance mới của CommentHandler
func NewCommentHandler(base *basehdl.BaseHandler, commentService *commentsvc.CommentService) *CommentHandler {
	return &CommentHandler{BaseHandler: base, commentService: commentService}
}

// HandleListVideoComments danh sách bình luận của video
func (h *CommentHandler) HandleListVideoComments(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		viewer, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		videoID, err := h.ParseObjectIDParam(c, "videoId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.commentService.ListVideoComments(c.Context(), videoID, viewer, page, limit)
		h.HandleResponse(c, 0, "Lấy danh sách bình luận thành công", result, err)
		return nil
	})
}

// HandleAddComment thêm bình luận vào video
func (h *CommentHandler) HandleAddComment(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		videoID, err := h.ParseObjectIDParam(c, "videoId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input commentdto.CommentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		comment, err := h.commentService.AddComment(c.Context(), videoID, actor, input.Content)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		h.HandleResponse(c, common.StatusCreated, "Thêm bình luận thành công", comment, nil)
		return nil
	})
}

// HandleUpdateComment sửa bình luận
func (h *CommentHandler) HandleUpdateComment(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		commentID, err := h.ParseObjectIDParam(c, "commentId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input commentdto.CommentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		comment, err := h.commentService.UpdateComment(c.Context(), commentID, actor, input.Content)
		h.HandleResponse(c, 0, "Cập nhật bình luận thành công", comment, err)
		return nil
	})
}

// HandleDeleteComment xóa bình luận
func (h *CommentHandler) HandleDeleteComment(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		commentID, err := h.ParseObjectIDParam(c, "commentId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		if err := h.commentService.DeleteComment(c.Context(), commentID, actor); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		logger.LogCRUD("delete", "comment", commentID.Hex(), c, nil)
		h.HandleResponse(c, 0, "Xóa bình luận thành công", fiber.Map{}, nil)
		return nil
	})
}
