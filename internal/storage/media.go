// Package storage quản lý media (video, ảnh) trên host S3-compatible.
package storage

import (
	"context"
	"mime/multipart"
)

// Kind loại media được tải lên, quyết định thư mục object và việc đo thời lượng
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// UploadResult kết quả upload một media
type UploadResult struct {
	URL      string
	PublicID string
	Duration float64 // Giây, chỉ có với KindVideo
}

// MediaStore là host lưu trữ media bên ngoài
type MediaStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader, kind Kind) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
