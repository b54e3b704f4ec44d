// Package dashboardhdl xử lý các request HTTP của dashboard chủ kênh.
package dashboardhdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	dashboardsvc "vidtube/internal/api/dashboard/service"
)

// DashboardHandler xử lý thống kê kênh
type DashboardHandler struct {
	*basehdl.BaseHandler
	dashboardService *dashboardsvc.DashboardService
}

// NewDashboardHandler tạo instance mới của DashboardHandler
func NewDashboardHandler(base *basehdl.BaseHandler, dashboardService *dashboardsvc.DashboardService) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, dashboardService: dashboardService}
}

// HandleGetChannelStats tổng video, lượt xem, lượt thích và người đăng ký của kênh hiện tại
func (h *DashboardHandler) HandleGetChannelStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		owner, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		stats, err := h.dashboardService.GetChannelStats(c.Context(), owner)
		h.HandleResponse(c, 0, "Lấy thống kê kênh thành công", stats, err)
		return nil
	})
}

// HandleGetChannelVideos mọi video của kênh hiện tại, kể cả chưa publish
func (h *DashboardHandler) HandleGetChannelVideos(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		owner, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.dashboardService.GetChannelVideos(c.Context(), owner, dashboardsvc.VideosParams{
			SortBy:   c.Query("sortBy"),
			SortType: c.Query("sortType"),
			Page:     page,
			Limit:    limit,
		})
		h.HandleResponse(c, 0, "Lấy danh sách video của kênh thành công", result, err)
		return nil
	})
}
