// Package playlisthdl xử lý các request HTTP của domain playlist.
package playlisthdl

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "vidtube/internal/api/base/handler"
	playlistdto "vidtube/internal/api/playlist/dto"
	playlistmodels "vidtube/internal/api/playlist/models"
	playlistsvc "vidtube/internal/api/playlist/service"
	"vidtube/internal/common"
	"vidtube/internal/logger"
)

// PlaylistHandler xử lý các request liên quan đến playlist
type PlaylistHandler struct {
	*basehdl.BaseHandler
	playlistService *playlistsvc.PlaylistService
}

// NewPlaylistHandler tạo instance mới của PlaylistHandler
func NewPlaylistHandler(base *basehdl.BaseHandler, playlistService *playlistsvc.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{BaseHandler: base, playlistService: playlistService}
}

// HandleCreatePlaylist tạo playlist mới
func (h *PlaylistHandler) HandleCreatePlaylist(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input playlistdto.PlaylistInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		playlist, err := h.playlistService.CreatePlaylist(c.Context(), actor, input.Name, input.Description)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		logger.LogCRUD("create", "playlist", playlist.ID.Hex(), c, nil)
		h.HandleResponse(c, common.StatusCreated, "Tạo playlist thành công", playlist, nil)
		return nil
	})
}

// HandleGetUserPlaylists danh sách playlist của một user
func (h *PlaylistHandler) HandleGetUserPlaylists(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.ParseObjectIDParam(c, "userId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.playlistService.GetUserPlaylists(c.Context(), userID, page, limit)
		h.HandleResponse(c, 0, "Lấy danh sách playlist thành công", result, err)
		return nil
	})
}

// HandleGetPlaylistByID chi tiết playlist
func (h *PlaylistHandler) HandleGetPlaylistByID(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		playlistID, err := h.ParseObjectIDParam(c, "playlistId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		playlist, err := h.playlistService.GetPlaylistByID(c.Context(), playlistID)
		h.HandleResponse(c, 0, "Lấy playlist thành công", playlist, err)
		return nil
	})
}

type membershipFunc func(ctx context.Context, videoID, playlistID, actor primitive.ObjectID) (*playlistmodels.Playlist, error)

// changeMembership dùng chung cho thêm/gỡ video
func (h *PlaylistHandler) changeMembership(c fiber.Ctx, apply membershipFunc, message string) error {
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
		playlistID, err := h.ParseObjectIDParam(c, "playlistId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		playlist, err := apply(c.Context(), videoID, playlistID, actor)
		h.HandleResponse(c, 0, message, playlist, err)
		return nil
	})
}

// HandleAddVideo thêm video vào playlist
func (h *PlaylistHandler) HandleAddVideo(c fiber.Ctx) error {
	return h.changeMembership(c, h.playlistService.AddVideo, "Đã thêm video vào playlist")
}

// HandleRemoveVideo gỡ video khỏi playlist
func (h *PlaylistHandler) HandleRemoveVideo(c fiber.Ctx) error {
	return h.changeMembership(c, h.playlistService.RemoveVideo, "Đã gỡ video khỏi playlist")
}

// HandleUpdatePlaylist đổi tên/mô tả playlist
func (h *PlaylistHandler) HandleUpdatePlaylist(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		playlistID, err := h.ParseObjectIDParam(c, "playlistId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input playlistdto.PlaylistInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		playlist, err := h.playlistService.UpdatePlaylist(c.Context(), playlistID, actor, input.Name, input.Description)
		h.HandleResponse(c, 0, "Cập nhật playlist thành công", playlist, err)
		return nil
	})
}

// HandleDeletePlaylist xóa playlist
func (h *PlaylistHandler) HandleDeletePlaylist(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		playlistID, err := h.ParseObjectIDParam(c, "playlistId")
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		if err := h.playlistService.DeletePlaylist(c.Context(), playlistID, actor); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		logger.LogCRUD("delete", "playlist", playlistID.Hex(), c, nil)
		h.HandleResponse(c, 0, "Xóa playlist thành công", fiber.Map{}, nil)
		return nil
	})
}
