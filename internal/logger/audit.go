package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một hành động audit (đăng ký, đăng nhập, xóa video...)
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	if requestID := RequestID(c); requestID != "" {
		details["request_id"] = requestID
	}

	userID, _ := c.Locals("user_id").(string)

	GetAuditLogger().WithFields(logrus.Fields{
		"action":     action,
		"user_id":    userID,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now(),
	}).Info("Audit log")
}

// LogCRUD log thao tác ghi/xóa trên một tài nguyên
func LogCRUD(operation string, resourceType string, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID

	LogAction("crud_"+operation, c, details)
}

// LogAuth log các thao tác authentication
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["auth_action"] = action

	LogAction("auth_"+action, c, details)
}
