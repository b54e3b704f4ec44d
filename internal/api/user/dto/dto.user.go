// Package userdto chứa các struct input cho domain user.
package userdto

import "mime/multipart"

// RegisterInput dữ liệu đăng ký (multipart, kèm avatar bắt buộc và coverImage tùy chọn)
type RegisterInput struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,notblank,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Username string `json:"username" form:"username" validate:"required,username"`
	Password string `json:"password" form:"password" validate:"required,notblank,min=6,max=72"`

	Avatar     *multipart.FileHeader `json:"-" form:"-"`
	CoverImage *multipart.FileHeader `json:"-" form:"-"`
}

// LoginInput đăng nhập bằng username hoặc email
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required_without=Email"`
	Email    string `json:"email" form:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshTokenInput refresh token gửi qua body (fallback khi không có cookie)
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// ChangePasswordInput đổi mật khẩu
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required,notblank,min=6,max=72"`
}

// UpdateAccountInput cập nhật thông tin tài khoản
type UpdateAccountInput struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,notblank,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
}
