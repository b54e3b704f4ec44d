// Package usersvc chứa logic nghiệp vụ của domain user: đăng ký, đăng nhập, token, hồ sơ kênh.
package usersvc

import (
	"context"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/config"
	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	usermodels "vidtube/internal/api/user/models"
	"vidtube/internal/common"
	"vidtube/internal/logger"
	"vidtube/internal/storage"
	"vidtube/internal/utility"
)

// TokenConfig cấu hình ký access/refresh token
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenConfigFrom đọc TokenConfig từ cấu hình server
func TokenConfigFrom(cfg *config.Configuration) TokenConfig {
	return TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     time.Duration(cfg.AccessTokenExpiry) * time.Minute,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    time.Duration(cfg.RefreshTokenExpiry) * time.Hour,
	}
}

// UserService xử lý nghiệp vụ tài khoản người dùng
type UserService struct {
	users  basesvc.BaseServiceMongo[usermodels.User]
	media  storage.MediaStore
	tokens TokenConfig
}

// NewUserService tạo UserService
func NewUserService(users basesvc.BaseServiceMongo[usermodels.User], media storage.MediaStore, tokens TokenConfig) *UserService {
	return &UserService{
		users:  users,
		media:  media,
		tokens: tokens,
	}
}

// RegisterParams dữ liệu đã validate để tạo tài khoản
type RegisterParams struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *multipart.FileHeader
	CoverImage *multipart.FileHeader
}

// Register tạo tài khoản mới. Username/email trùng => 409.
// Media đã upload sẽ được dọn nếu tạo document thất bại.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*usermodels.User, error) {
	username := utility.NormalizeUsername(p.Username)
	email := utility.NormalizeEmail(p.Email)

	exists, err := s.users.DocumentExists(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewConflictError("Username hoặc email đã được sử dụng")
	}

	if p.Avatar == nil {
		return nil, common.NewValidationError("Ảnh đại diện là bắt buộc", nil)
	}

	hash, err := utility.HashPassword(p.Password)
	if err != nil {
		return nil, common.NewInternalError(common.MsgInternalError, err)
	}

	avatar, err := s.media.Upload(ctx, p.Avatar, storage.KindImage)
	if err != nil {
		return nil, err
	}
	uploaded := []string{avatar.PublicID}

	user := usermodels.User{
		Username:     username,
		Email:        email,
		FullName:     p.FullName,
		Avatar:       basemodels.MediaAsset{URL: avatar.URL, PublicID: avatar.PublicID},
		Password:     hash,
		WatchHistory: []primitive.ObjectID{},
	}

	if p.CoverImage != nil {
		cover, err := s.media.Upload(ctx, p.CoverImage, storage.KindImage)
		if err != nil {
			s.cleanupMedia(ctx, uploaded...)
			return nil, err
		}
		uploaded = append(uploaded, cover.PublicID)
		user.CoverImage = &basemodels.MediaAsset{URL: cover.URL, PublicID: cover.PublicID}
	}

	created, err := s.users.InsertOne(ctx, user)
	if err != nil {
		s.cleanupMedia(ctx, uploaded...)
		return nil, err
	}
	return &created, nil
}

// FindById lấy user theo id
func (s *UserService) FindById(ctx context.Context, id primitive.ObjectID) (*usermodels.User, error) {
	user, err := s.users.FindOneById(ctx, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("Không tìm thấy người dùng")
		}
		return nil, err
	}
	return &user, nil
}

// ResolveAuthUser tải user theo id trong access token (dùng cho auth middleware)
func (s *UserService) ResolveAuthUser(ctx context.Context, id primitive.ObjectID) (*usermodels.User, error) {
	user, err := s.users.FindOneById(ctx, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword đổi mật khẩu sau khi xác nhận mật khẩu cũ
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.FindById(ctx, userID)
	if err != nil {
		return err
	}
	if !utility.CheckPassword(user.Password, oldPassword) {
		return common.NewValidationError("Mật khẩu cũ không chính xác", nil)
	}

	hash, err := utility.HashPassword(newPassword)
	if err != nil {
		return common.NewInternalError(common.MsgInternalError, err)
	}
	_, err = s.users.UpdateById(ctx, userID, bson.M{"password": hash})
	return err
}

// UpdateAccount cập nhật fullName, email. Email trùng => 409.
func (s *UserService) UpdateAccount(ctx context.Context, userID primitive.ObjectID, fullName, email string) (*usermodels.User, error) {
	email = utility.NormalizeEmail(email)
	taken, err := s.users.DocumentExists(ctx, bson.M{"email": email, "_id": bson.M{"$ne": userID}})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.NewConflictError("Email đã được sử dụng")
	}

	updated, err := s.users.UpdateById(ctx, userID, bson.M{"fullName": fullName, "email": email})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateAvatar thay ảnh đại diện, ảnh cũ bị xóa khỏi media host sau khi cập nhật thành công
func (s *UserService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, file *multipart.FileHeader) (*usermodels.User, error) {
	return s.replaceImage(ctx, userID, "avatar", file)
}

// UpdateCoverImage thay ảnh bìa
func (s *UserService) UpdateCoverImage(ctx context.Context, userID primitive.ObjectID, file *multipart.FileHeader) (*usermodels.User, error) {
	return s.replaceImage(ctx, userID, "coverImage", file)
}

func (s *UserService) replaceImage(ctx context.Context, userID primitive.ObjectID, field string, file *multipart.FileHeader) (*usermodels.User, error) {
	if file == nil {
		return nil, common.NewValidationError("Thiếu tệp ảnh", nil)
	}
	current, err := s.FindById(ctx, userID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.media.Upload(ctx, file, storage.KindImage)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateById(ctx, userID, bson.M{
		field: basemodels.MediaAsset{URL: uploaded.URL, PublicID: uploaded.PublicID},
	})
	if err != nil {
		s.cleanupMedia(ctx, uploaded.PublicID)
		return nil, err
	}

	var oldID string
	if field == "avatar" {
		oldID = current.Avatar.PublicID
	} else if current.CoverImage != nil {
		oldID = current.CoverImage.PublicID
	}
	s.cleanupMedia(ctx, oldID)

	return &updated, nil
}

// cleanupMedia xóa media không còn được tham chiếu, lỗi chỉ được log kèm publicId để dọn tay
func (s *UserService) cleanupMedia(ctx context.Context, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := s.media.Delete(ctx, id); err != nil {
			logger.WithModule(ctx, "user").WithError(err).WithField("publicId", id).Warn("Failed to delete media")
		}
	}
}
