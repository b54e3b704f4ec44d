package utility

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vidtube/internal/common"
)

// TokenClaims chứa data được mã hóa trong JWT.
// Access token mang đủ _id, email, username; refresh token chỉ mang _id.
type TokenClaims struct {
	ID       string `json:"_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken ký token HS256 với thời hạn ttl, mỗi token mang jti riêng
func GenerateToken(claims TokenClaims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken xác thực chữ ký + hạn dùng và trả về claims.
// Hết hạn => common.ErrTokenExpired, mọi lỗi khác => common.ErrTokenInvalid.
func ParseToken(raw, secret string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid || claims.ID == "" {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
