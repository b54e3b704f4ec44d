package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// ContextKey là type cho context keys
type ContextKey string

const (
	// RequestIDKey là key cho request ID trong context
	RequestIDKey ContextKey = "requestID"
	// UserIDKey là key cho user ID trong context
	UserIDKey ContextKey = "userID"
)

// WithContext trả về logger entry kèm request_id/user_id nếu context có
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}
	if userID := ctx.Value(UserIDKey); userID != nil {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}

// BindRequest gắn request_id/user_id của request vào context mà handler truyền xuống service
func BindRequest(c fiber.Ctx) {
	ctx := c.Context()
	if requestID := RequestID(c); requestID != "" {
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
	}
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		ctx = context.WithValue(ctx, UserIDKey, userID)
	}
	c.SetContext(ctx)
}

// WithRequest trả về logger entry với request context từ Fiber
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithContext(c.Context())

	if requestID := RequestID(c); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		entry = entry.WithField("user_id", userID)
	}

	return entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}

// RequestID lấy request ID do middleware requestid gắn, fallback sang header
func RequestID(c fiber.Ctx) string {
	if rid := requestid.FromContext(c); rid != "" {
		return rid
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		return rid
	}
	return c.GetRespHeader("X-Request-ID")
}

// WithFields trả về logger entry với các fields bổ sung
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError trả về logger entry với error
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule trả về logger entry với module name (video, user, playlist...), kèm request_id/user_id từ ctx
func WithModule(ctx context.Context, module string) *logrus.Entry {
	return WithContext(ctx).WithField("module", module)
}

// WithCollection trả về logger entry với collection name
func WithCollection(collection string) *logrus.Entry {
	return GetAppLogger().WithField("collection", collection)
}
