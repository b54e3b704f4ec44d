package usersvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
	"vidtube/internal/utility"
)

// TokenPair cặp access/refresh token vừa cấp
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login xác thực bằng username hoặc email + mật khẩu, cấp token mới và lưu refresh token
func (s *UserService) Login(ctx context.Context, username, email, password string) (*usermodels.User, *TokenPair, error) {
	var conditions bson.A
	if username != "" {
		conditions = append(conditions, bson.M{"username": utility.NormalizeUsername(username)})
	}
	if email != "" {
		conditions = append(conditions, bson.M{"email": utility.NormalizeEmail(email)})
	}
	if len(conditions) == 0 {
		return nil, nil, common.NewValidationError("Cần username hoặc email", nil)
	}

	user, err := s.users.FindOne(ctx, bson.M{"$or": conditions}, nil)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, nil, common.NewNotFoundError("Người dùng không tồn tại")
		}
		return nil, nil, err
	}
	if !utility.CheckPassword(user.Password, password) {
		return nil, nil, common.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokens, nil
}

// Logout xóa refresh token đã lưu
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users.UpdateById(ctx, userID, bson.M{"$unset": bson.M{"refreshToken": 1}})
	return err
}

// RefreshTokens đổi refresh token lấy cặp token mới. Refresh token chỉ dùng được một lần.
func (s *UserService) RefreshTokens(ctx context.Context, incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, common.ErrTokenMissing
	}
	claims, err := utility.ParseToken(incoming, s.tokens.RefreshSecret)
	if err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	user, err := s.users.FindOneById(ctx, userID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != incoming {
		return nil, common.ErrRefreshTokenUsed
	}

	return s.issueTokens(ctx, &user)
}

// issueTokens ký access + refresh token và lưu refresh token vào user
func (s *UserService) issueTokens(ctx context.Context, user *usermodels.User) (*TokenPair, error) {
	access, err := utility.GenerateToken(utility.TokenClaims{
		ID:       user.ID.Hex(),
		Email:    user.Email,
		Username: user.Username,
	}, s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return nil, common.NewInternalError(common.MsgInternalError, err)
	}
	refresh, err := utility.GenerateToken(utility.TokenClaims{ID: user.ID.Hex()}, s.tokens.RefreshSecret, s.tokens.RefreshTTL)
	if err != nil {
		return nil, common.NewInternalError(common.MsgInternalError, err)
	}

	if _, err := s.users.UpdateById(ctx, user.ID, bson.M{"refreshToken": refresh}); err != nil {
		return nil, err
	}
	user.RefreshToken = refresh
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
