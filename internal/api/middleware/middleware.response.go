package middleware

import (
	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
)

// HandleErrorResponse trả về envelope lỗi chuẩn và dừng chuỗi middleware
func HandleErrorResponse(c fiber.Ctx, err error) error {
	status, body := basehdl.ErrorEnvelope(err)
	return basehdl.JSONResponse(c, status, body)
}
