// Package models chứa các model thuộc domain user.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "vidtube/internal/api/base/models"
)

// User đại diện cho tài khoản người dùng (cũng là một kênh)
type User struct {
	ID           primitive.ObjectID     `json:"_id" bson:"_id,omitempty"`
	Username     string                 `json:"username" bson:"username" index:"unique"`
	Email        string                 `json:"email" bson:"email" index:"unique"`
	FullName     string                 `json:"fullName" bson:"fullName"`
	Avatar       basemodels.MediaAsset  `json:"avatar" bson:"avatar"`
	CoverImage   *basemodels.MediaAsset `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Password     string                 `json:"-" bson:"password"`
	RefreshToken string                 `json:"-" bson:"refreshToken,omitempty"`
	WatchHistory []primitive.ObjectID   `json:"watchHistory" bson:"watchHistory"`
	CreatedAt    int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64                  `json:"updatedAt" bson:"updatedAt"`
}
