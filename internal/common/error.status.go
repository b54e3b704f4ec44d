package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK      = 200 // Thành công
	StatusCreated = 201 // Tạo mới thành công

	// Client Error Codes (4xx)
	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgSuccess = "Thao tác thành công"
	MsgCreated = "Tạo mới thành công"

	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgUnauthorized    = "Vui lòng đăng nhập"
	MsgForbidden       = "Không có quyền truy cập"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgConflict        = "Xung đột dữ liệu"
	MsgTooManyRequests = "Quá nhiều yêu cầu, vui lòng thử lại sau"
	MsgInternalError   = "Lỗi hệ thống"

	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi (ví dụ: Authentication)
	SubCategory string // Phân loại con (ví dụ: Token)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	ErrCodeMediaStorage = ErrorCode{
		Code:        "SYS_002",
		Category:    "System",
		SubCategory: "MediaStorage",
		Description: "Lỗi khi tải lên hoặc xóa media",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token",
	}

	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Credentials",
		Description: "Lỗi thông tin đăng nhập",
	}

	ErrCodeAuthOwnership = ErrorCode{
		Code:        "AUTH_004",
		Category:    "Authorization",
		SubCategory: "Ownership",
		Description: "Người thực hiện không phải chủ sở hữu tài nguyên",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}

	ErrCodeBusinessConflict = ErrorCode{
		Code:        "BIZ_003",
		Category:    "Business",
		SubCategory: "Conflict",
		Description: "Trạng thái đã tồn tại (trùng lặp)",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is so khớp theo mã lỗi và message (hỗ trợ errors.Is với các lỗi preset)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// Unwrap trả về lỗi gốc nếu Details là error
func (e *Error) Unwrap() error {
	if inner, ok := e.Details.(error); ok {
		return inner
	}
	return nil
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewValidationError lỗi dữ liệu đầu vào (400)
func NewValidationError(message string, details any) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// NewNotFoundError lỗi không tìm thấy tài nguyên (404)
func NewNotFoundError(message string) error {
	return NewError(ErrCodeDatabaseQuery, message, StatusNotFound, nil)
}

// NewForbiddenError lỗi không phải chủ sở hữu (403)
func NewForbiddenError(message string) error {
	return NewError(ErrCodeAuthOwnership, message, StatusForbidden, nil)
}

// NewConflictError lỗi trạng thái trùng lặp (409)
func NewConflictError(message string) error {
	return NewError(ErrCodeBusinessConflict, message, StatusConflict, nil)
}

// NewInternalError lỗi không mong muốn (500), giữ lại lỗi gốc trong Details
func NewInternalError(message string, cause error) error {
	return NewError(ErrCodeInternalServer, message, StatusInternalServerError, cause)
}

// Custom errors
var (
	// Authentication Errors
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Thông tin đăng nhập không chính xác", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, "Phiên đăng nhập đã hết hạn", StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, "Token không hợp lệ", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, "Thiếu token xác thực", StatusUnauthorized, nil)
	ErrRefreshTokenUsed   = NewError(ErrCodeAuthToken, "Refresh token đã hết hạn hoặc đã được sử dụng", StatusUnauthorized, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound  = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)

	// MongoDB Specific Errors
	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối MongoDB", StatusServiceUnavailable, nil)
	ErrMongoNetwork    = NewError(ErrCodeDatabaseConnection, "Lỗi mạng khi kết nối MongoDB", StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, "Kết nối MongoDB bị timeout", StatusServiceUnavailable, nil)
	ErrMongoQuery      = NewError(ErrCodeDatabaseQuery, "Lỗi truy vấn MongoDB", StatusInternalServerError, nil)
	ErrMongoWrite      = NewError(ErrCodeDatabaseQuery, "Lỗi ghi dữ liệu MongoDB", StatusInternalServerError, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Lỗi đã thuộc hệ thống (ví dụ ErrNotFound) thì giữ nguyên
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Duplicate key phải kiểm tra trước CommandError vì WriteException cũng mang code 11000
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsTimeout(err) {
		return ErrMongoTimeout
	}
	if mongo.IsNetworkError(err) {
		return ErrMongoNetwork
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		case cmdErr.HasErrorLabel("TransientTransactionError"):
			return ErrMongoConnection
		case cmdErr.Code >= 100 && cmdErr.Code < 200:
			return ErrMongoConnection
		default:
			return NewError(ErrCodeDatabaseQuery, ErrMongoQuery.Error(), StatusInternalServerError, err)
		}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		return NewError(ErrCodeDatabaseQuery, ErrMongoWrite.Error(), StatusInternalServerError, err)
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}

// IsNotFound kiểm tra lỗi không tìm thấy dữ liệu
func IsNotFound(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode == StatusNotFound
	}
	return errors.Is(err, mongo.ErrNoDocuments)
}
