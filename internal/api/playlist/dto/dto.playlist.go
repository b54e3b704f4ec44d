// Package playlistdto chứa các struct input cho domain playlist.
package playlistdto

// PlaylistInput tên và mô tả playlist (tạo mới và cập nhật đều bắt buộc cả hai)
type PlaylistInput struct {
	Name        string `json:"name" form:"name" validate:"required,notblank,max=100,no_xss"`
	Description string `json:"description" form:"description" validate:"required,notblank,max=1000"`
}
