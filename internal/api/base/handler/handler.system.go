package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"vidtube/internal/common"
)

// Pinger là nguồn dữ liệu có thể ping (database.Store)
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	*BaseHandler
	db        Pinger
	startedAt time.Time
}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(0),
		db:          db,
		startedAt:   time.Now(),
	}
}

// HandleHealth kiểm tra tình trạng API và kết nối database.
// Database lỗi => 503 kèm data để load balancer phân biệt.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"database":  "ok",
	}

	if h.db == nil {
		healthData["status"] = "degraded"
		healthData["database"] = "not_initialized"
	} else if err := h.db.Ping(ctx); err != nil {
		healthData["status"] = "degraded"
		healthData["database"] = "error"
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"statusCode": common.StatusServiceUnavailable,
			"message":    "Hệ thống đang gặp sự cố",
			"success":    false,
			"errors":     []FieldError{},
			"data":       healthData,
		})
	}

	h.HandleResponse(c, common.StatusOK, "Hệ thống hoạt động bình thường", healthData, nil)
	return nil
}
