// Package storagetest cung cấp MediaStore giả lập dùng trong test.
package storagetest

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"vidtube/internal/storage"
)

// FakeStore ghi nhận các lần upload/xóa, không gọi ra ngoài
type FakeStore struct {
	mu        sync.Mutex
	seq       int
	Uploaded  []string
	Deleted   []string
	Duration  float64
	UploadErr error
	DeleteErr error
}

// Upload trả về PublicID tuần tự fake/<kind>/<n>
func (f *FakeStore) Upload(_ context.Context, file *multipart.FileHeader, kind storage.Kind) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	f.seq++
	id := fmt.Sprintf("fake/%s/%d", kind, f.seq)
	f.Uploaded = append(f.Uploaded, id)
	res := &storage.UploadResult{URL: "http://media.test/" + id, PublicID: id}
	if kind == storage.KindVideo {
		res.Duration = f.Duration
	}
	return res, nil
}

// Delete ghi nhận PublicID bị xóa
func (f *FakeStore) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, publicID)
	return nil
}
