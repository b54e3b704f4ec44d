// Package commentdto chứa các struct input cho domain comment.
package commentdto

// CommentInput nội dung bình luận (tạo mới và cập nhật)
type CommentInput struct {
	Content string `json:"content" form:"content" validate:"required,notblank,max=2000,no_xss"`
}
