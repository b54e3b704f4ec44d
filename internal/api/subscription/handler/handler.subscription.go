// Package subscriptionhdl xử lý các request HTTP của domain subscription.
package subscriptionhdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	subscriptionsvc "vidtube/internal/api/subscription/service"
)

// SubscriptionHandler xử lý đăng ký kênh
type SubscriptionHandler struct {
	*basehdl.BaseHandler
	subscriptionService *subscriptionsvc.SubscriptionService
}

// NewSubscriptionHandler tạo instance mới của SubscriptionHandler
func NewSubscriptionHandler(base *basehdl.BaseHandler, subscriptionService *subscriptionsvc.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{BaseHandler: base, subscriptionService: subscriptionService}
}

// HandleToggleSubscription đăng ký/hủy đăng ký kênh, trả về {subscribed}
func (h *SubscriptionHandler) HandleToggleSubscription(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		channelID, err := h.ParseObjectIDParam(c, "channelId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		subscribed, err := h.subscriptionService.ToggleSubscription(c.Context(), channelID, actor)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		message := "Đã hủy đăng ký kênh"
		if subscribed {
			message = "Đăng ký kênh thành công"
		}
		h.HandleResponse(c, 0, message, fiber.Map{"subscribed": subscribed}, nil)
		return nil
	})
}

// HandleGetChannelSubscribers danh sách người đăng ký của kênh
func (h *SubscriptionHandler) HandleGetChannelSubscribers(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		viewer, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		channelID, err := h.ParseObjectIDParam(c, "channelId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.subscriptionService.GetChannelSubscribers(c.Context(), channelID, viewer, page, limit)
		h.HandleResponse(c, 0, "Lấy danh sách người đăng ký thành công", result, err)
		return nil
	})
}

// HandleGetSubscribedChannels danh sách kênh mà user đang đăng ký
func (h *SubscriptionHandler) HandleGetSubscribedChannels(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		subscriberID, err := h.ParseObjectIDParam(c, "subscriberId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.subscriptionService.GetSubscribedChannels(c.Context(), subscriberID, page, limit)
		h.HandleResponse(c, 0, "Lấy danh sách kênh đã đăng ký thành công", result, err)
		return nil
	})
}
