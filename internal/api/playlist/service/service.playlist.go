// Package playlistsvc chứa logic nghiệp vụ của domain playlist.
package playlistsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "vidtube/internal/api/base/service"
	playlistmodels "vidtube/internal/api/playlist/models"
	videomodels "vidtube/internal/api/video/models"
	"vidtube/internal/common"
	"vidtube/internal/utility"
)

// PlaylistService xử lý nghiệp vụ playlist
type PlaylistService struct {
	playlists basesvc.BaseServiceMongo[playlistmodels.Playlist]
	videos    basesvc.BaseServiceMongo[videomodels.Video]
}

// NewPlaylistService tạo PlaylistService
func NewPlaylistService(
	playlists basesvc.BaseServiceMongo[playlistmodels.Playlist],
	videos basesvc.BaseServiceMongo[videomodels.Video],
) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos}
}

func normalizeFields(name, description string) (string, string, error) {
	utility.TrimAll(&name, &description)
	if name == "" || description == "" {
		return "", "", common.NewValidationError("Tên và mô tả playlist là bắt buộc", nil)
	}
	return name, description, nil
}

// CreatePlaylist tạo playlist rỗng
func (s *PlaylistService) CreatePlaylist(ctx context.Context, owner primitive.ObjectID, name, description string) (*playlistmodels.Playlist, error) {
	name, description, err := normalizeFields(name, description)
	if err != nil {
		return nil, err
	}
	created, err := s.playlists.InsertOne(ctx, playlistmodels.Playlist{
		Name:        name,
		Description: description,
		Owner:       owner,
		Videos:      []primitive.ObjectID{},
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PlaylistService) loadOwned(ctx context.Context, playlistID, actor primitive.ObjectID) (*playlistmodels.Playlist, error) {
	playlist, err := s.playlists.FindOneById(ctx, playlistID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("Playlist không tồn tại")
		}
		return nil, err
	}
	if playlist.Owner != actor {
		return nil, common.NewForbiddenError("Bạn không phải chủ sở hữu playlist này")
	}
	return &playlist, nil
}

// AddVideo thêm video vào playlist. Video đã có => 409.
func (s *PlaylistService) AddVideo(ctx context.Context, videoID, playlistID, actor primitive.ObjectID) (*playlistmodels.Playlist, error) {
	playlist, err := s.loadOwned(ctx, playlistID, actor)
	if err != nil {
		return nil, err
	}
	exists, err := s.videos.DocumentExists(ctx, bson.M{"_id": videoID})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NewNotFoundError("Video không tồn tại")
	}
	if utility.Contains(playlist.Videos, videoID) {
		return nil, common.NewConflictError("Video đã có trong playlist")
	}

	updated, err := s.playlists.UpdateById(ctx, playlistID, bson.M{"$addToSet": bson.M{"videos": videoID}})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveVideo gỡ video khỏi playlist. Video không có trong playlist => 404.
func (s *PlaylistService) RemoveVideo(ctx context.Context, videoID, playlistID, actor primitive.ObjectID) (*playlistmodels.Playlist, error) {
	playlist, err := s.loadOwned(ctx, playlistID, actor)
	if err != nil {
		return nil, err
	}
	if !utility.Contains(playlist.Videos, videoID) {
		return nil, common.NewNotFoundError("Video không có trong playlist")
	}

	updated, err := s.playlists.UpdateById(ctx, playlistID, bson.M{"$pull": bson.M{"videos": videoID}})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdatePlaylist đổi tên và mô tả
func (s *PlaylistService) UpdatePlaylist(ctx context.Context, playlistID, actor primitive.ObjectID, name, description string) (*playlistmodels.Playlist, error) {
	name, description, err := normalizeFields(name, description)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadOwned(ctx, playlistID, actor); err != nil {
		return nil, err
	}
	updated, err := s.playlists.UpdateById(ctx, playlistID, bson.M{"name": name, "description": description})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePlaylist xóa playlist (video trong playlist không bị ảnh hưởng)
func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, actor primitive.ObjectID) error {
	if _, err := s.loadOwned(ctx, playlistID, actor); err != nil {
		return err
	}
	return s.playlists.DeleteById(ctx, playlistID)
}
