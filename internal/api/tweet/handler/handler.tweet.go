// Package tweethdl xử lý các request HTTP của domain tweet.
package tweethdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	tweetdto "vidtube/internal/api/tweet/dto"
	tweetsvc "vidtube/internal/api/tweet/service"
	"vidtube/internal/common"
)

// TweetHandler xử lý các request liên quan đến tweet
type TweetHandler struct {
	*basehdl.BaseHandler
	tweetService *tweetsvc.TweetService
}

// NewTweetHandler tạo instance mới của TweetHandler
func NewTweetHandler(base *basehdl.BaseHandler, tweetService *tweetsvc.TweetService) *TweetHandler {
	return &TweetHandler{BaseHandler: base, tweetService: tweetService}
}

// HandleCreateTweet tạo tweet
func (h *TweetHandler) HandleCreateTweet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input tweetdto.TweetInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		tweet, err := h.tweetService.CreateTweet(c.Context(), actor, input.Content)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		h.HandleResponse(c, common.StatusCreated, "Tạo tweet thành công", tweet, nil)
		return nil
	})
}

// HandleGetUserTweets danh sách tweet của một user
func (h *TweetHandler) HandleGetUserTweets(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		viewer, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		userID, err := h.ParseObjectIDParam(c, "userId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		tweets, err := h.tweetService.GetUserTweets(c.Context(), userID, viewer)
		h.HandleResponse(c, 0, "Lấy danh sách tweet thành công", tweets, err)
		return nil
	})
}

// HandleUpdateTweet sửa tweet
func (h *TweetHandler) HandleUpdateTweet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		tweetID, err := h.ParseObjectIDParam(c, "tweetId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input tweetdto.TweetInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		tweet, err := h.tweetService.UpdateTweet(c.Context(), tweetID, actor, input.Content)
		h.HandleResponse(c, 0, "Cập nhật tweet thành công", tweet, err)
		return nil
	})
}

// HandleDeleteTweet xóa tweet
func (h *TweetHandler) HandleDeleteTweet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		tweetID, err := h.ParseObjectIDParam(c, "tweetId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		if err := h.tweetService.DeleteTweet(c.Context(), tweetID, actor); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		h.HandleResponse(c, 0, "Xóa tweet thành công", fiber.Map{}, nil)
		return nil
	})
}
