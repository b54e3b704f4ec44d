// Package basehdl - các tiện ích dùng chung cho handler: parse/validate input, phân trang, id từ URI.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/common"
	"vidtube/internal/global"
)

// Giá trị phân trang mặc định
const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
)

// FieldError mô tả lỗi validate của một field, trả về trong mảng "errors" của envelope
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BaseHandler cung cấp các helper cho domain handler
type BaseHandler struct {
	MaxPageLimit int64 // Giới hạn trên của limit khi phân trang
}

// NewBaseHandler tạo BaseHandler, maxPageLimit <= 0 => 100
func NewBaseHandler(maxPageLimit int64) *BaseHandler {
	if maxPageLimit <= 0 {
		maxPageLimit = 100
	}
	return &BaseHandler{MaxPageLimit: maxPageLimit}
}

// ParseRequestBody parse body vào input rồi validate.
// JSON dùng json.Decoder với UseNumber(), form/multipart dùng binder của Fiber (tag `form`).
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) || strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		if err := c.Bind().Body(input); err != nil {
			return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
		}
	} else if len(c.Body()) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(c.Body()))
		decoder.UseNumber()
		if err := decoder.Decode(input); err != nil {
			return common.NewError(common.ErrCodeValidationFormat, "Dữ liệu gửi lên không đúng định dạng JSON", common.StatusBadRequest, err)
		}
	}

	return h.ValidateInput(input)
}

// ValidateInput validate struct bằng global.Validate và gom lỗi theo field
func (h *BaseHandler) ValidateInput(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	err := global.Validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return common.NewValidationError(common.MsgValidationError, nil)
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldErrorMessage(fe)})
	}
	return common.NewValidationError(fields[0].Message, fields)
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s là bắt buộc", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s không được để trống", fe.Field())
	case "email":
		return fmt.Sprintf("%s không đúng định dạng email", fe.Field())
	case "min":
		return fmt.Sprintf("%s phải có ít nhất %s ký tự", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s không được vượt quá %s ký tự", fe.Field(), fe.Param())
	case "objectid":
		return fmt.Sprintf("%s không đúng định dạng MongoDB ObjectID", fe.Field())
	case "username":
		return fmt.Sprintf("%s chỉ gồm 3-30 ký tự a-z, 0-9, '_' hoặc '.'", fe.Field())
	}
	return fmt.Sprintf("%s không hợp lệ", fe.Field())
}

// ===== Phân trang =====

// NormalizePagination chuẩn hóa page/limit từ query string.
// Thiếu => 1/10, không phải số => 1, <= 0 => 1, limit vượt maxLimit => maxLimit.
func NormalizePagination(pageRaw, limitRaw string, maxLimit int64) (page, limit int64) {
	page = parsePositive(pageRaw, DefaultPage)
	limit = parsePositive(limitRaw, DefaultLimit)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func parsePositive(raw string, def int64) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePagination đọc page/limit từ query của request
func (h *BaseHandler) ParsePagination(c fiber.Ctx) (int64, int64) {
	return NormalizePagination(c.Query("page"), c.Query("limit"), h.MaxPageLimit)
}

// ===== Tham số URI / người dùng hiện tại =====

// ParseObjectID chuyển chuỗi hex thành ObjectID, lỗi validate (400) nếu sai định dạng
func ParseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", raw),
			common.StatusBadRequest,
			err,
		)
	}
	return id, nil
}

// ParseObjectIDParam đọc và kiểm tra ObjectID từ URI param
func (h *BaseHandler) ParseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	return ParseObjectID(c.Params(name))
}

// CurrentUserID lấy id người dùng đã xác thực do AuthMiddleware gắn vào Locals
func (h *BaseHandler) CurrentUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, common.ErrTokenMissing
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return id, nil
}

// FormFile trả về file trong multipart form, nil nếu request không có field này
func (h *BaseHandler) FormFile(c fiber.Ctx, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
