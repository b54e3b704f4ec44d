// Package videodto chứa các struct input cho domain video.
package videodto

// ListVideosQuery tham số lọc/sắp xếp danh sách video (đọc từ query string)
type ListVideosQuery struct {
	Query    string `query:"query"`
	SortBy   string `query:"sortBy"` // Ngoài danh sách cho phép => createdAt
	SortType string `query:"sortType"`
	UserID   string `query:"userId" validate:"omitempty,objectid"`
}

// PublishVideoInput dữ liệu text khi upload video (multipart, kèm videoFile + thumbnail)
type PublishVideoInput struct {
	Title       string `json:"title" form:"title" validate:"required,notblank,max=200,no_xss"`
	Description string `json:"description" form:"description" validate:"required,notblank,max=5000"`
}

// UpdateVideoInput cập nhật video, thumbnail mới là tùy chọn
type UpdateVideoInput struct {
	Title       string `json:"title" form:"title" validate:"required,notblank,max=200,no_xss"`
	Description string `json:"description" form:"description" validate:"required,notblank,max=5000"`
}
