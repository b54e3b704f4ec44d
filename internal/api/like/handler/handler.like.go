// Package likehdl xử lý các request HTTP của domain like.
package likehdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	likesvc "vidtube/internal/api/like/service"
)

// LikeHandler xử lý các request like/unlike
type LikeHandler struct {
	*basehdl.BaseHandler
	likeService *likesvc.LikeService
}

// NewLikeHandler tạo instance mới của LikeHandler
func NewLikeHandler(base *basehdl.BaseHandler, likeService *likesvc.LikeService) *LikeHandler {
	return &LikeHandler{BaseHandler: base, likeService: likeService}
}

// toggle dùng chung cho ba route toggle, param là tên URI param chứa id đối tượng
func (h *LikeHandler) toggle(c fiber.Ctx, target likesvc.LikeTarget, param string) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		targetID, err := h.ParseObjectIDParam(c, param)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		liked, err := h.likeService.Toggle(c.Context(), target, targetID, actor)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		message := "Đã bỏ thích"
		if liked {
			message = "Đã thích"
		}
		h.HandleResponse(c, 0, message, fiber.Map{"isLiked": liked}, nil)
		return nil
	})
}

// HandleToggleVideoLike like/unlike video
func (h *LikeHandler) HandleToggleVideoLike(c fiber.Ctx) error {
	return h.toggle(c, likesvc.TargetVideo, "videoId")
}

// HandleToggleCommentLike like/unlike bình luận
func (h *LikeHandler) HandleToggleCommentLike(c fiber.Ctx) error {
	return h.toggle(c, likesvc.TargetComment, "commentId")
}

// HandleToggleTweetLike like/unlike tweet
func (h *LikeHandler) HandleToggleTweetLike(c fiber.Ctx) error {
	return h.toggle(c, likesvc.TargetTweet, "tweetId")
}

// HandleGetLikedVideos danh sách video người dùng hiện tại đã like
func (h *LikeHandler) HandleGetLikedVideos(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		videos, err := h.likeService.GetLikedVideos(c.Context(), actor)
		h.HandleResponse(c, 0, "Lấy danh sách video đã thích thành công", videos, err)
		return nil
	})
}
