// Package registry cung cấp registry generic, thread-safe, dùng để giữ các handle dùng chung
// (ví dụ collection MongoDB) theo tên.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"vidtube/internal/common"
)

// Registry là registry generic an toàn khi dùng đồng thời.
// Type parameter T là loại item được quản lý.
//
// Example:
//
//	cols := NewRegistry[*mongo.Collection]()
//	cols.Register("videos", db.Collection("videos"))
//	if col, ok := cols.Get("videos"); ok {
//	    ...
//	}
type Registry[T any] struct {
	items map[string]T // Map lưu trữ các items theo key
	mu    sync.RWMutex
}

// NewRegistry tạo và trả về một registry rỗng.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// ====================================
// CÁC PHƯƠNG THỨC CỦA REGISTRY
// ====================================

// Register đăng ký một item. Nếu name đã tồn tại, item cũ bị ghi đè.
//
// Returns:
//   - isNew: true nếu là item mới, false nếu ghi đè item cũ
//   - err: lỗi nếu name rỗng
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên. exists = false nếu chưa đăng ký.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet lấy item theo tên, trả về common.ErrNotFound (bọc tên) nếu không có.
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		return item, fmt.Errorf("registry item %q: %w", name, common.ErrNotFound)
	}
	return item, nil
}

// GetOrCreate lấy item theo tên, nếu không tồn tại sẽ tạo mới qua creator.
// creator được gọi khi đang giữ lock nên không được gọi ngược lại registry.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingItem, exists := r.items[name]; exists {
		return existingItem, nil
	}

	newItem, err := creator()
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}

	r.items[name] = newItem
	return newItem, nil
}

// Names trả về danh sách tên đã đăng ký, sắp xếp tăng dần.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
