// Package middleware chứa các Fiber middleware dùng chung: xác thực JWT và trả lỗi chuẩn.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
	"vidtube/internal/logger"
	"vidtube/internal/utility"
)

// Tên cookie chứa token
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Key lưu trong c.Locals
const (
	LocalUserID = "user_id"
	LocalUser   = "user"
)

// UserResolver tải user còn hợp lệ theo id trong access token
type UserResolver interface {
	ResolveAuthUser(ctx context.Context, id primitive.ObjectID) (*usermodels.User, error)
}

// ExtractToken lấy access token từ cookie, sau đó tới header "Authorization: Bearer <token>"
func ExtractToken(c fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware xác thực access token (HS256) rồi lưu user vào context.
// Token thiếu/sai/hết hạn hoặc user không còn tồn tại => 401.
func AuthMiddleware(secret string, users UserResolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Debug("Missing access token")
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		claims, err := utility.ParseToken(token, secret)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("Access token rejected")
			return HandleErrorResponse(c, err)
		}

		userID, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		user, err := users.ResolveAuthUser(c.Context(), userID)
		if err != nil {
			return HandleErrorResponse(c, err)
		}

		c.Locals(LocalUserID, user.ID.Hex())
		c.Locals(LocalUser, user)
		logger.BindRequest(c)
		return c.Next()
	}
}

// CurrentUser lấy user đã xác thực từ context
func CurrentUser(c fiber.Ctx) (*usermodels.User, bool) {
	user, ok := c.Locals(LocalUser).(*usermodels.User)
	return user, ok && user != nil
}
