// Package global giữ các đối tượng dùng chung toàn tiến trình (validator).
package global

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validate là validator dùng chung cho DTO
var Validate *validator.Validate

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Lỗi validate trả về tên field theo json tag (fullName thay vì FullName)
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = Validate.RegisterValidation("notblank", validators.NotBlank)
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("username", validateUsername)
	_ = Validate.RegisterValidation("objectid", validateObjectID)
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"document.cookie",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateUsername: 3-30 ký tự a-z, 0-9, "_" hoặc "." (so khớp sau khi lower-case)
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(strings.ToLower(strings.TrimSpace(fl.Field().String())))
}

// validateObjectID kiểm tra chuỗi hex 24 ký tự của MongoDB ObjectID
func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}
