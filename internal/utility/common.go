package utility

import (
	"strings"
)

// NormalizeEmail chuẩn hóa email trước khi lưu hoặc so khớp (trim + lower-case)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername chuẩn hóa username (trim + lower-case)
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// TrimAll trim khoảng trắng cho từng chuỗi được trỏ tới
func TrimAll(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}
