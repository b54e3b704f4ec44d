// Package videohdl xử lý các request HTTP của domain video.
package videohdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	videodto "vidtube/internal/api/video/dto"
	videosvc "vidtube/internal/api/video/service"
	"vidtube/internal/common"
	"vidtube/internal/logger"
)

// VideoHandler xử lý các request liên quan đến video
type VideoHandler struct {
	*basehdl.BaseHandler
	videoService *videosvc.VideoService
}

// NewVideoHandler tạo instance mới của VideoHandler
func NewVideoHandler(base *basehdl.BaseHandler, videoService *videosvc.VideoService) *VideoHandler {
	return &VideoHandler{
		BaseHandler:  base,
		videoService: videoService,
	}
}

// HandleListVideos danh sách video đã publish (query, userId, sortBy, sortType, page, limit)
func (h *VideoHandler) HandleListVideos(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var query videodto.ListVideosQuery
		if err := c.Bind().Query(&query); err != nil {
			h.HandleResponse(c, 0, "", nil, common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateInput(&query); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		result, err := h.videoService.ListVideos(c.Context(), videosvc.ListParams{
			Query:    query.Query,
			UserID:   query.UserID,
			SortBy:   query.SortBy,
			SortType: query.SortType,
			Page:     page,
			Limit:    limit,
		})
		h.HandleResponse(c, 0, "Lấy danh sách video thành công", result, err)
		return nil
	})
}

// HandlePublishVideo upload video mới (multipart: videoFile, thumbnail, title, description)
func (h *VideoHandler) HandlePublishVideo(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		owner, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input videodto.PublishVideoInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		video, err := h.videoService.PublishVideo(c.Context(), videosvc.PublishParams{
			Owner:       owner,
			Title:       input.Title,
			Description: input.Description,
			VideoFile:   h.FormFile(c, "videoFile"),
			Thumbnail:   h.FormFile(c, "thumbnail"),
		})
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		logger.LogCRUD("create", "video", video.ID.Hex(), c, nil)
		h.HandleResponse(c, common.StatusCreated, "Upload video thành công", video, nil)
		return nil
	})
}

// HandleGetVideoByID chi tiết video, đồng thời tăng lượt xem
func (h *VideoHandler) HandleGetVideoByID(c fiber.Ctx) error {
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
		video, err := h.videoService.GetVideoByID(c.Context(), videoID, viewer)
		h.HandleResponse(c, 0, "Lấy thông tin video thành công", video, err)
		return nil
	})
}

// HandleUpdateVideo cập nhật title/description, thumbnail mới tùy chọn
func (h *VideoHandler) HandleUpdateVideo(c fiber.Ctx) error {
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
		var input videodto.UpdateVideoInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		video, err := h.videoService.UpdateVideo(c.Context(), videoID, actor, videosvc.UpdateParams{
			Title:       input.Title,
			Description: input.Description,
			Thumbnail:   h.FormFile(c, "thumbnail"),
		})
		h.HandleResponse(c, 0, "Cập nhật video thành công", video, err)
		return nil
	})
}

// HandleDeleteVideo xóa video kèm likes và comments
func (h *VideoHandler) HandleDeleteVideo(c fiber.Ctx) error {
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
		if err := h.videoService.DeleteVideo(c.Context(), videoID, actor); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		logger.LogCRUD("delete", "video", videoID.Hex(), c, nil)
		h.HandleResponse(c, 0, "Xóa video thành công", fiber.Map{}, nil)
		return nil
	})
}

// HandleTogglePublishStatus bật/tắt publish, trả về {isPublished}
func (h *VideoHandler) HandleTogglePublishStatus(c fiber.Ctx) error {
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
		published, err := h.videoService.TogglePublishStatus(c.Context(), videoID, actor)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		h.HandleResponse(c, 0, "Cập nhật trạng thái publish thành công", fiber.Map{"isPublished": published}, nil)
		return nil
	})
}
