package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"vidtube/internal/common"
	"vidtube/internal/logger"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SuccessEnvelope là body chuẩn khi thành công
func SuccessEnvelope(statusCode int, data interface{}, message string) fiber.Map {
	return fiber.Map{
		"statusCode": statusCode,
		"data":       data,
		"message":    message,
		"success":    true,
	}
}

// ErrorEnvelope chuyển error thành status code và body lỗi chuẩn.
// Lỗi không thuộc common.Error được coi là lỗi hệ thống (500), message gốc không lộ ra client.
func ErrorEnvelope(err error) (int, fiber.Map) {
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		customErr = common.NewInternalError(common.MsgInternalError, err).(*common.Error)
	}

	fieldErrors := []FieldError{}
	if details, ok := customErr.Details.([]FieldError); ok {
		fieldErrors = details
	}

	return customErr.StatusCode, fiber.Map{
		"statusCode": customErr.StatusCode,
		"message":    customErr.Message,
		"success":    false,
		"errors":     fieldErrors,
		"code":       customErr.Code.Code,
	}
}

// SafeHandler bọc handler với recover để server luôn trả về response, kể cả khi có panic
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("stack", string(debug.Stack())).Errorf("Handler panic recovered: %v", r)
			h.HandleResponse(c, 0, "", nil, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				fmt.Errorf("panic: %v", r),
			))
			err = nil
		}
	}()
	return handler()
}

// HandleResponse chuẩn hóa response trả về cho client.
// err != nil => envelope lỗi, ngược lại envelope thành công với statusCode (0 => 200) và message (rỗng => MsgSuccess).
func (h *BaseHandler) HandleResponse(c fiber.Ctx, statusCode int, message string, data interface{}, err error) {
	if err != nil {
		status, body := ErrorEnvelope(err)
		entry := logger.WithRequest(c).WithError(err).WithField("status", status)
		if status >= common.StatusInternalServerError {
			entry.Error("Request failed")
			logger.GetErrorLogger().WithFields(entry.Data).WithError(err).Error("Request failed")
		} else {
			entry.Debug("Request rejected")
		}
		_ = JSONResponse(c, status, body)
		return
	}

	if statusCode == 0 {
		statusCode = common.StatusOK
	}
	if message == "" {
		message = common.MsgSuccess
	}
	_ = JSONResponse(c, statusCode, SuccessEnvelope(statusCode, data, message))
}
